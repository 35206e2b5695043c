package room

import (
	"context"
	"log"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/protocol"
)

// selectOption 抢选仲裁
//
// 规则按顺序在最新加载的状态上检查：
//  1. 房间在抢选阶段
//  2. 标签未被其他玩家持有
//  3. 自己已持有时幂等成功
//  4. 未超出配额
// 检查与写回作为一次乐观提交，先持久化者得。
func (e *Engine) selectOption(ctx context.Context, cmd SelectOption) (*Result, error) {
	var (
		selections []string
		complete   bool
	)

	room, err := e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
		complete = false

		if r.Player(cmd.Actor) == nil {
			return false, apperrors.ErrNotInRoom
		}
		round := r.ActiveRound()
		if r.Status != StatusRoundInProgress || round == nil || round.Status != RoundSelecting {
			return false, apperrors.ErrInvalidState
		}
		if !round.HasOption(cmd.Label) {
			return false, apperrors.ErrInvalidOption
		}

		if owner, taken := round.ClaimedBy(cmd.Label); taken {
			if owner == cmd.Actor {
				// 重复提交同一标签：幂等成功，不追加
				selections = round.Selections[cmd.Actor]
				return false, nil
			}
			return false, apperrors.ErrAlreadyClaimed
		}

		if len(round.Selections[cmd.Actor]) >= round.Quota() {
			return false, apperrors.ErrQuotaExceeded
		}

		round.Selections[cmd.Actor] = append(round.Selections[cmd.Actor], cmd.Label)
		selections = round.Selections[cmd.Actor]
		complete = round.QuotaMetByAll(r.Players)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	round := room.ActiveRound()
	events := []Event{
		callerEvent(protocol.MustNewMessage(protocol.MsgSelectResult, protocol.SelectResultPayload{
			Success:    true,
			Label:      cmd.Label,
			Selections: selections,
		})),
		roomEvent(protocol.MustNewMessage(protocol.MsgSelectionsUpdated, protocol.SelectionsUpdatedPayload{
			Selections: selectionsView(round),
		})),
	}

	if complete {
		log.Printf("✅ 房间 %s 第 %d 轮全员达到配额", room.Code, round.Number+1)
		events = append(events, roomEvent(protocol.MustNewMessage(protocol.MsgRoundComplete, protocol.RoundCompletePayload{
			RoundNumber: round.Number,
		})))
	}

	return &Result{Room: room, Events: events, RoundComplete: complete}, nil
}
