package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/genre-battle/internal/logger"
	"github.com/palemoky/genre-battle/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1812", "服务器地址")
	flag.Parse()

	// TUI 接管终端后日志写文件
	if err := logger.Init(); err == nil {
		defer logger.Close()
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	model := ui.NewModel(serverURL)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
