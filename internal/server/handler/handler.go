package handler

import (
	"errors"
	"log"
	"time"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server        types.ServerInterface
	Engine        *room.Engine
	AutoEvalDelay time.Duration
}

// Handler 消息处理器
type Handler struct {
	server        types.ServerInterface
	engine        *room.Engine
	autoEvalDelay time.Duration
	handlers      map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server:        deps.Server,
		engine:        deps.Engine,
		autoEvalDelay: deps.AutoEvalDelay,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing:         h.handlePing,
		protocol.MsgGetRoomState: func(c types.ClientInterface, _ *protocol.Message) { h.handleGetRoomState(c) },

		// 房间操作
		protocol.MsgCreateRoom: h.handleCreateRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgLeaveRoom:  func(c types.ClientInterface, _ *protocol.Message) { h.handleLeaveRoom(c) },
		protocol.MsgCloseRoom:  func(c types.ClientInterface, _ *protocol.Message) { h.handleCloseRoom(c) },

		// 对局操作
		protocol.MsgStartGame:     func(c types.ClientInterface, _ *protocol.Message) { h.handleStartGame(c) },
		protocol.MsgSelectOption:  h.handleSelectOption,
		protocol.MsgSetReady:      h.handleSetReady,
		protocol.MsgEvaluateRound: func(c types.ClientInterface, _ *protocol.Message) { h.handleEvaluateRound(c) },
		protocol.MsgNextRound:     func(c types.ClientInterface, _ *protocol.Message) { h.handleNextRound(c) },
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (连接: %s)", msg.Type, client.GetConnID())
	client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// deliver 分发命令产生的事件
//
// 状态机违规只回给发起者，不广播，一名玩家的无效操作
// 不会打扰其他人。
func (h *Handler) deliver(client types.ClientInterface, roomCode string, events []room.Event) {
	for _, ev := range events {
		switch ev.Scope {
		case room.ToCaller:
			client.SendMessage(ev.Msg)
		case room.ToRoom:
			h.server.BroadcastToRoom(roomCode, ev.Msg)
		}
	}
}

// deliverRoom 仅分发广播事件（内部自动触发没有发起者）
func (h *Handler) deliverRoom(roomCode string, events []room.Event) {
	for _, ev := range events {
		if ev.Scope == room.ToRoom {
			h.server.BroadcastToRoom(roomCode, ev.Msg)
		}
	}
}

// sendError 将错误回给发起者
func sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(protocol.NewErrorMessage(gameErr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}
