package client

import (
	"github.com/palemoky/genre-battle/internal/protocol"
)

// CreateRoom 创建房间
func (c *Client) CreateRoom(userID, name string, roundCount int) {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		UserID:     userID,
		Name:       name,
		RoundCount: roundCount,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode, userID, name string) {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode: roomCode,
		UserID:   userID,
		Name:     name,
	}))
}

// LeaveRoom 离开房间
func (c *Client) LeaveRoom() {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgLeaveRoom, nil))
}

// CloseRoom 关闭房间（仅房主）
func (c *Client) CloseRoom() {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgCloseRoom, nil))
}

// StartGame 开始游戏（仅房主）
func (c *Client) StartGame() {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgStartGame, nil))
}

// SelectOption 抢选选项
func (c *Client) SelectOption(label string) {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgSelectOption, protocol.SelectOptionPayload{
		Label: label,
	}))
}

// SetReady 设置准备状态
func (c *Client) SetReady(ready bool) {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgSetReady, protocol.SetReadyPayload{
		Ready: ready,
	}))
}

// EvaluateRound 结算当前轮（仅房主）
func (c *Client) EvaluateRound() {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgEvaluateRound, nil))
}

// NextRound 进入下一轮（仅房主）
func (c *Client) NextRound() {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgNextRound, nil))
}

// RequestRoomState 拉取房间快照（重连后同步）
func (c *Client) RequestRoomState() {
	c.SendMessage(protocol.MustNewMessage(protocol.MsgGetRoomState, nil))
}
