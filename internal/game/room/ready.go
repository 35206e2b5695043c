package room

import (
	"context"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/protocol"
)

// setReady 设置准备状态
//
// 仅在 evaluating 阶段有效；全员首次变为准备时边沿触发
// 自动推进信号，重复置 true 不会再次触发。
func (e *Engine) setReady(ctx context.Context, cmd SetReady) (*Result, error) {
	var edge bool

	room, err := e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
		edge = false

		if r.Player(cmd.Actor) == nil {
			return false, apperrors.ErrNotInRoom
		}
		if r.Status != StatusEvaluating {
			return false, apperrors.ErrInvalidState
		}
		if r.Ready[cmd.Actor] == cmd.Ready {
			return false, nil
		}

		wasAll := r.allReady()
		r.Ready[cmd.Actor] = cmd.Ready
		edge = !wasAll && r.allReady()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	events := []Event{
		roomEvent(protocol.MustNewMessage(protocol.MsgReadyUpdated, protocol.ReadyUpdatedPayload{
			Ready:    readyView(room),
			AllReady: room.allReady(),
		})),
	}

	return &Result{Room: room, Events: events, AllReady: edge}, nil
}
