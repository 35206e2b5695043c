package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/sound"
)

// Update 实现 tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case ConnectedMsg:
		m.phase = phaseLogin
		return m, nil

	case ConnectionErrorMsg:
		m.errMsg = "无法连接服务器: " + msg.Err.Error()
		return m, nil

	case ConnectionClosedMsg:
		m.errMsg = "与服务器断开连接"
		return m, tea.Quit

	case ServerMessage:
		return m.handleServerMessage(msg.Msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.client.Close()
			m.sound.Close()
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey 按阶段分发按键
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseLogin:
		if msg.Type == tea.KeyEnter {
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				return m, nil
			}
			m.name = name
			m.input.Reset()
			m.input.Placeholder = "输入房间号加入，留空回车创建..."
			m.phase = phaseMenu
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseMenu:
		if msg.Type == tea.KeyEnter {
			m.errMsg = ""
			code := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if code == "" {
				m.client.CreateRoom(m.userID, m.name, 3)
			} else {
				m.client.JoinRoom(code, m.userID, m.name)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case phaseWaiting:
		switch msg.String() {
		case "s":
			if m.isCreator() {
				m.errMsg = ""
				m.client.StartGame()
			}
		case "q":
			m.leaveToMenu()
		}
		return m, nil

	case phaseSelecting:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.round != nil && m.cursor < len(m.round.Options)-1 {
				m.cursor++
			}
		case "enter", " ":
			if m.round != nil && m.cursor < len(m.round.Options) {
				m.errMsg = ""
				m.client.SelectOption(m.round.Options[m.cursor].Label)
			}
		case "e":
			if m.isCreator() {
				m.client.EvaluateRound()
			}
		case "q":
			m.leaveToMenu()
		}
		return m, nil

	case phaseEvaluated:
		switch msg.String() {
		case "r":
			m.myReady = !m.myReady
			m.client.SetReady(m.myReady)
		case "n":
			if m.isCreator() {
				m.client.NextRound()
			}
		case "q":
			m.leaveToMenu()
		}
		return m, nil

	case phaseGameOver:
		switch msg.String() {
		case "q", "enter":
			m.client.Close()
			m.sound.Close()
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

// leaveToMenu 离开房间回到大厅
func (m *Model) leaveToMenu() {
	m.client.LeaveRoom()
	m.resetRoomState()
	m.input.Reset()
	m.phase = phaseMenu
}

func (m *Model) resetRoomState() {
	m.room = protocol.RoomSnapshot{}
	m.round = nil
	m.ready = nil
	m.myReady = false
	m.results = nil
	m.standings = nil
	m.cursor = 0
	m.errMsg = ""
}

// handleServerMessage 处理服务器推送
func (m *Model) handleServerMessage(msg *protocol.Message) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		if payload, err := protocol.ParsePayload[protocol.RoomCreatedPayload](msg); err == nil {
			m.applySnapshot(payload.Room)
		}

	case protocol.MsgRoomJoined:
		if payload, err := protocol.ParsePayload[protocol.RoomJoinedPayload](msg); err == nil {
			m.applySnapshot(payload.Room)
		}

	case protocol.MsgRoomState:
		if payload, err := protocol.ParsePayload[protocol.RoomStatePayload](msg); err == nil {
			m.applySnapshot(payload.Room)
		}

	case protocol.MsgPlayerJoined:
		if payload, err := protocol.ParsePayload[protocol.PlayerJoinedPayload](msg); err == nil {
			m.room.Players = payload.Players
		}

	case protocol.MsgPlayerLeft:
		// 名单不变，离开的玩家回来还能继续

	case protocol.MsgGameStarted, protocol.MsgNewRound:
		if payload, err := protocol.ParsePayload[protocol.NewRoundPayload](msg); err == nil {
			m.round = &payload.Round
			m.room.Players = payload.Players
			m.results = nil
			m.myReady = false
			m.cursor = 0
			m.phase = phaseSelecting
			m.sound.Play(sound.CueRoundStart)
		}

	case protocol.MsgSelectResult:
		if payload, err := protocol.ParsePayload[protocol.SelectResultPayload](msg); err == nil {
			if payload.Success {
				m.sound.Play(sound.CueClaimOK)
			} else {
				m.errMsg = payload.Reason
				m.sound.Play(sound.CueClaimLost)
			}
		}

	case protocol.MsgSelectionsUpdated:
		if payload, err := protocol.ParsePayload[protocol.SelectionsUpdatedPayload](msg); err == nil && m.round != nil {
			m.round.Selections = payload.Selections
		}

	case protocol.MsgRoundComplete:
		// 所有人都抢完了，等待结算推送

	case protocol.MsgRoundEvaluated:
		if payload, err := protocol.ParsePayload[protocol.RoundEvaluatedPayload](msg); err == nil {
			m.results = payload
			m.myReady = false
			m.ready = nil
			m.phase = phaseEvaluated
			m.sound.Play(sound.CueEvaluated)
			for _, r := range payload.Results {
				m.setPlayerScore(r.PlayerID, r.TotalScore)
			}
		}

	case protocol.MsgReadyUpdated:
		if payload, err := protocol.ParsePayload[protocol.ReadyUpdatedPayload](msg); err == nil {
			m.ready = payload.Ready
			m.myReady = payload.Ready[m.userID]
		}

	case protocol.MsgGameOver:
		if payload, err := protocol.ParsePayload[protocol.GameOverPayload](msg); err == nil {
			m.standings = payload.Standings
			m.phase = phaseGameOver
			m.sound.Play(sound.CueGameOver)
		}

	case protocol.MsgRoomClosed:
		m.resetRoomState()
		m.input.Reset()
		m.errMsg = "房间已关闭"
		m.phase = phaseMenu

	case protocol.MsgError:
		if payload, err := protocol.ParsePayload[protocol.ErrorPayload](msg); err == nil {
			m.errMsg = payload.Message
		}
	}

	return m, m.waitForMessage
}

// applySnapshot 用服务器快照重建本地状态
func (m *Model) applySnapshot(snap protocol.RoomSnapshot) {
	m.room = snap
	m.round = snap.Round
	m.ready = snap.Ready
	m.myReady = snap.Ready[m.userID]

	switch snap.Status {
	case "waiting":
		m.phase = phaseWaiting
	case "round_in_progress":
		m.phase = phaseSelecting
	case "evaluating":
		m.phase = phaseEvaluated
	case "completed":
		m.phase = phaseGameOver
	}
}

// setPlayerScore 更新名单中的累计得分
func (m *Model) setPlayerScore(id string, total int) {
	for i := range m.room.Players {
		if m.room.Players[i].ID == id {
			m.room.Players[i].Score = total
		}
	}
}
