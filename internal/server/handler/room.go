package handler

import (
	"context"
	"time"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/types"
)

// handlerTimeout 单条命令的处理超时
const handlerTimeout = 10 * time.Second

func handlerContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), handlerTimeout)
}

// handlePing 处理心跳
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.CreateRoomPayload](msg)
	if err != nil || payload.UserID == "" || payload.Name == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.BindIdentity(payload.UserID, payload.Name)

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.CreateRoom{
		Actor:      room.PlayerID(payload.UserID),
		Name:       payload.Name,
		RoundCount: payload.RoundCount,
	})
	if err != nil {
		sendError(client, err)
		return
	}

	roomsCreated.Inc()
	h.server.BindRoom(client, res.Room.Code)
	h.deliver(client, res.Room.Code, res.Events)
}

// handleJoinRoom 处理加入房间（幂等，重连时恢复成员身份）
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil || payload.UserID == "" || payload.Name == "" || payload.RoomCode == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	client.BindIdentity(payload.UserID, payload.Name)

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.JoinRoom{
		RoomCode: payload.RoomCode,
		Actor:    room.PlayerID(payload.UserID),
		Name:     payload.Name,
	})
	if err != nil {
		sendError(client, err)
		return
	}

	h.server.BindRoom(client, res.Room.Code)
	h.deliver(client, res.Room.Code, res.Events)
}

// handleLeaveRoom 处理离开房间
//
// 只解除连接绑定，名单不变，回来还能继续玩。
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	roomCode, lastOfUser := h.server.UnbindRoom(client)
	if roomCode == "" || !lastOfUser {
		return
	}

	h.server.BroadcastToRoom(roomCode, protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetUserID(),
		PlayerName: client.GetName(),
	}))
}

// handleCloseRoom 处理关闭房间（仅房主）
func (h *Handler) handleCloseRoom(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.CloseRoom{
		RoomCode: roomCode,
		Actor:    room.PlayerID(client.GetUserID()),
	})
	if err != nil {
		sendError(client, err)
		return
	}

	// 先广播 room_closed，再解除所有绑定
	h.deliver(client, roomCode, res.Events)
	h.server.ReleaseRoom(roomCode)
}

// handleGetRoomState 处理房间快照拉取（重连后同步）
func (h *Handler) handleGetRoomState(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	r, err := h.engine.Snapshot(ctx, roomCode)
	if err != nil {
		sendError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomState, protocol.RoomStatePayload{
		Room: r.Snapshot(),
	}))
}
