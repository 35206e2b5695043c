package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
)

// 日志文件超过该大小时轮转，只保留一份旧文件
const maxLogSize = 10 * 1024 * 1024

var (
	logFile *os.File
	logPath string
)

// Init 将标准日志重定向到文件
//
// TUI 接管终端后 stderr 不可见，客户端的日志统一写到
// ~/.genre-battle/client.log（可用 GB_LOG_DIR 覆盖目录）。
func Init() error {
	dir := os.Getenv("GB_LOG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("获取用户主目录失败: %w", err)
		}
		dir = filepath.Join(home, ".genre-battle")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	logPath = filepath.Join(dir, "client.log")
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		_ = os.Rename(logPath, logPath+".old")
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}
	logFile = f

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	log.Printf("日志初始化完成: %s", logPath)

	return nil
}

// Close 关闭日志文件
func Close() {
	if logFile != nil {
		_ = logFile.Close()
	}
}

// Panicf 记录 panic 与调用栈
func Panicf(r any) {
	log.Printf("[PANIC] %v\n%s", r, debug.Stack())
}

// Path 当前日志文件路径
func Path() string {
	return logPath
}
