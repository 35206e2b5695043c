package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/palemoky/genre-battle/internal/client"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/sound"
)

// 界面阶段
type phase int

const (
	phaseConnecting phase = iota
	phaseLogin
	phaseMenu
	phaseWaiting
	phaseSelecting
	phaseEvaluated
	phaseGameOver
)

// ServerMessage 服务器消息（tea.Msg 包装）
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg 连接成功
type ConnectedMsg struct{}

// ConnectionErrorMsg 连接失败
type ConnectionErrorMsg struct {
	Err error
}

// ConnectionClosedMsg 连接断开
type ConnectionClosedMsg struct{}

// Model 客户端主模型
type Model struct {
	client *client.Client
	sound  *sound.Manager
	msgs   chan tea.Msg

	phase  phase
	errMsg string

	// 玩家身份：每次启动生成，会话内保持稳定
	userID string
	name   string

	// 房间状态（由服务器消息驱动）
	room      protocol.RoomSnapshot
	round     *protocol.RoundView
	ready     map[string]bool
	myReady   bool
	results   *protocol.RoundEvaluatedPayload
	standings []protocol.PlayerInfo

	// UI 组件
	input  textinput.Model
	cursor int
	width  int
	height int
}

// NewModel 创建客户端模型
func NewModel(serverURL string) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入昵称..."
	ti.CharLimit = 24
	ti.Width = 24
	ti.Focus()

	m := &Model{
		client: client.NewClient(serverURL),
		sound:  sound.NewManager(),
		msgs:   make(chan tea.Msg, 64),
		phase:  phaseConnecting,
		userID: uuid.NewString(),
		input:  ti,
	}

	m.client.OnMessage = func(msg *protocol.Message) {
		m.msgs <- ServerMessage{Msg: msg}
	}
	m.client.OnClose = func() {
		m.msgs <- ConnectionClosedMsg{}
	}

	return m
}

// Init 实现 tea.Model
func (m *Model) Init() tea.Cmd {
	_ = m.sound.Init()
	return tea.Batch(m.connect, m.waitForMessage)
}

// connect 建立服务器连接
func (m *Model) connect() tea.Msg {
	if err := m.client.Connect(); err != nil {
		return ConnectionErrorMsg{Err: err}
	}
	return ConnectedMsg{}
}

// waitForMessage 等待下一条服务器消息
func (m *Model) waitForMessage() tea.Msg {
	return <-m.msgs
}

// me 自己在名单中的条目
func (m *Model) me() *protocol.PlayerInfo {
	for i := range m.room.Players {
		if m.room.Players[i].ID == m.userID {
			return &m.room.Players[i]
		}
	}
	return nil
}

// isCreator 自己是否是房主
func (m *Model) isCreator() bool {
	p := m.me()
	return p != nil && p.IsCreator
}

// mySelections 自己本轮已抢的标签
func (m *Model) mySelections() []string {
	if m.round == nil {
		return nil
	}
	return m.round.Selections[m.userID]
}

// labelOwner 标签当前归属的玩家 ID
func (m *Model) labelOwner(label string) string {
	if m.round == nil {
		return ""
	}
	for id, labels := range m.round.Selections {
		for _, l := range labels {
			if l == label {
				return id
			}
		}
	}
	return ""
}

// playerName 按 ID 查玩家昵称
func (m *Model) playerName(id string) string {
	for _, p := range m.room.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
