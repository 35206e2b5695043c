package handler

import (
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/types"
)

// handleStartGame 处理开始游戏（仅房主）
func (h *Handler) handleStartGame(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.StartGame{
		RoomCode: roomCode,
		Actor:    room.PlayerID(client.GetUserID()),
	})
	if err != nil {
		sendError(client, err)
		return
	}

	h.deliver(client, roomCode, res.Events)
}

// handleSelectOption 处理抢选
//
// 仲裁失败（已被抢走、超出配额等）通过 select_result 确认帧
// 回给发起者本人，永远不广播。
func (h *Handler) handleSelectOption(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SelectOptionPayload](msg)
	if err != nil || payload.Label == "" {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.SelectOption{
		RoomCode: roomCode,
		Actor:    room.PlayerID(client.GetUserID()),
		Label:    payload.Label,
	})
	if err != nil {
		claimsDenied.Inc()
		var gameErr *apperrors.GameError
		if errors.As(err, &gameErr) {
			client.SendMessage(protocol.MustNewMessage(protocol.MsgSelectResult, protocol.SelectResultPayload{
				Success: false,
				Code:    gameErr.Code,
				Reason:  gameErr.Message,
				Label:   payload.Label,
			}))
			return
		}
		sendError(client, err)
		return
	}

	claimsGranted.Inc()
	h.deliver(client, roomCode, res.Events)

	// 全员达标后延迟自动结算。延迟只是减少多端同时触发的
	// 重复劳动，真正的恰好一次由结算的幂等检查保证
	if res.RoundComplete {
		h.scheduleAutoEvaluate(roomCode)
	}
}

// handleSetReady 处理准备状态
func (h *Handler) handleSetReady(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.SetReadyPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.SetReady{
		RoomCode: roomCode,
		Actor:    room.PlayerID(client.GetUserID()),
		Ready:    payload.Ready,
	})
	if err != nil {
		sendError(client, err)
		return
	}

	h.deliver(client, roomCode, res.Events)

	// 全员首次就绪，自动进入下一轮（边沿触发）
	if res.AllReady {
		go h.autoAdvance(roomCode)
	}
}

// handleEvaluateRound 处理结算（仅房主）
func (h *Handler) handleEvaluateRound(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.EvaluateRound{
		RoomCode: roomCode,
		Actor:    room.PlayerID(client.GetUserID()),
	})
	if err != nil {
		sendError(client, err)
		return
	}

	roundsEvaluated.Inc()
	h.deliver(client, roomCode, res.Events)
}

// handleNextRound 处理进入下一轮（仅房主）
func (h *Handler) handleNextRound(client types.ClientInterface) {
	roomCode := client.GetRoom()
	if roomCode == "" {
		sendError(client, apperrors.ErrNotInRoom)
		return
	}

	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.AdvanceRound{
		RoomCode: roomCode,
		Actor:    room.PlayerID(client.GetUserID()),
	})
	if err != nil {
		sendError(client, err)
		return
	}

	h.deliver(client, roomCode, res.Events)
}

// scheduleAutoEvaluate 随机短延迟后自动结算
func (h *Handler) scheduleAutoEvaluate(roomCode string) {
	var delay time.Duration
	if h.autoEvalDelay > 0 {
		delay = time.Duration(rand.Int64N(int64(h.autoEvalDelay)))
	}

	time.AfterFunc(delay, func() {
		ctx, cancel := handlerContext()
		defer cancel()

		res, err := h.engine.Handle(ctx, room.EvaluateRound{RoomCode: roomCode, Auto: true})
		if err != nil {
			// 房主可能已经手动结算或关房，都不是问题
			if !errors.Is(err, apperrors.ErrInvalidState) && !errors.Is(err, apperrors.ErrRoomNotFound) {
				log.Printf("⚠️ 房间 %s 自动结算失败: %v", roomCode, err)
			}
			return
		}

		roundsEvaluated.Inc()
		h.deliverRoom(roomCode, res.Events)
	})
}

// autoAdvance 全员就绪后自动进入下一轮
func (h *Handler) autoAdvance(roomCode string) {
	ctx, cancel := handlerContext()
	defer cancel()

	res, err := h.engine.Handle(ctx, room.AdvanceRound{RoomCode: roomCode, Auto: true})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInvalidState) && !errors.Is(err, apperrors.ErrRoomNotFound) {
			log.Printf("⚠️ 房间 %s 自动推进失败: %v", roomCode, err)
		}
		return
	}

	h.deliverRoom(roomCode, res.Events)
}
