package room

import (
	"context"
	"errors"
	"log"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/scoring"
)

// errSelectionsChanged 评分期间有新的抢选提交，本次分数基于过期快照
var errSelectionsChanged = errors.New("选项归属在评分期间发生变化")

// evaluateRound 结算当前轮次
//
// 对同一轮次并发触发是安全的：selecting → completed 的状态检查
// 在乐观提交内完成，后到的触发方拿到的是已存结果而不是重算。
// 评分服务调用不在持久化循环内，失败时退回本地精确匹配评分，
// 评分服务故障永远不会阻塞对局推进。
//
// 评分基于加载时的抢选快照。提交闭包中会比对最新轮次的抢选与
// 被评分的快照：若评分期间有抢选并发提交（轮次仍是 selecting，
// 仲裁会放行），作废本次分数并重新加载重评，保证落盘的分数
// 与落盘的抢选一致。
func (e *Engine) evaluateRound(ctx context.Context, cmd EvaluateRound) (*Result, error) {
	for attempt := 0; attempt < e.saveRetries; attempt++ {
		room, err := e.loadRoom(ctx, cmd.RoomCode)
		if err != nil {
			return nil, err
		}
		if !cmd.Auto && !room.IsCreator(cmd.Actor) {
			return nil, apperrors.ErrForbidden
		}

		round := room.ActiveRound()
		if round == nil {
			return nil, apperrors.ErrInvalidState
		}
		if round.Status == RoundCompleted {
			// 幂等：重发已存结果
			return &Result{
				Room:   room,
				Events: []Event{callerEvent(evaluatedMessage(room, round))},
			}, nil
		}
		if room.Status != StatusRoundInProgress {
			return nil, apperrors.ErrInvalidState
		}

		scored := snapshotSelections(round)
		scores, details := e.scoreRound(ctx, room, round)

		prev := round.Number
		room, err = e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
			rd := r.ActiveRound()
			if rd == nil || rd.Number != prev {
				return false, apperrors.ErrInvalidState
			}
			if rd.Status == RoundCompleted {
				// 并发触发方已结算，保留已存结果
				return false, nil
			}
			if r.Status != StatusRoundInProgress {
				return false, apperrors.ErrInvalidState
			}
			if !selectionsEqual(rd.Selections, scored) {
				return false, errSelectionsChanged
			}

			rd.Scores = scores
			rd.Details = details
			for _, p := range r.Players {
				p.Score += scores[p.ID]
			}
			rd.Status = RoundCompleted
			r.Status = StatusEvaluating
			r.resetReady()
			return true, nil
		})
		if errors.Is(err, errSelectionsChanged) {
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Printf("🧮 房间 %s 第 %d 轮已结算", room.Code, prev+1)

		return &Result{
			Room:   room,
			Events: []Event{roomEvent(evaluatedMessage(room, room.Rounds[prev]))},
		}, nil
	}
	return nil, apperrors.ErrRoomBusy
}

// scoreRound 逐玩家评分。零选择的玩家直接记 0 分，不调用外部服务
func (e *Engine) scoreRound(ctx context.Context, room *Room, round *Round) (map[PlayerID]int, map[PlayerID][]MatchDetail) {
	scores := make(map[PlayerID]int, len(room.Players))
	details := make(map[PlayerID][]MatchDetail, len(room.Players))
	for _, p := range room.Players {
		claims := round.Selections[p.ID]
		if len(claims) == 0 {
			scores[p.ID] = 0
			continue
		}
		res := e.scorePlayer(ctx, room.Code, p.ID, claims, round.CorrectAnswers)
		scores[p.ID] = res.AverageScore
		details[p.ID] = toMatchDetails(res.PerLabel)
	}
	return scores, details
}

// snapshotSelections 拷贝轮次抢选，供提交时比对
func snapshotSelections(rd *Round) map[PlayerID][]string {
	snap := make(map[PlayerID][]string, len(rd.Selections))
	for id, labels := range rd.Selections {
		snap[id] = append([]string(nil), labels...)
	}
	return snap
}

// selectionsEqual 抢选按提交顺序追加，逐位比较即可
func selectionsEqual(a, b map[PlayerID][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for id, la := range a {
		lb, ok := b[id]
		if !ok || len(la) != len(lb) {
			return false
		}
		for i := range la {
			if la[i] != lb[i] {
				return false
			}
		}
	}
	return true
}

// scorePlayer 调用评分服务，失败时退回精确匹配
func (e *Engine) scorePlayer(ctx context.Context, code string, id PlayerID, claims, correct []string) *scoring.Result {
	res, err := e.scorer.Score(ctx, claims, correct)
	if err == nil {
		return res
	}

	log.Printf("⚠️ 房间 %s 玩家 %s 评分服务失败，使用精确匹配兜底: %v", code, id, err)
	res, _ = scoring.ExactScorer{}.Score(ctx, claims, correct)
	return res
}

// evaluatedMessage 由已结算轮次构造结果消息
func evaluatedMessage(r *Room, round *Round) *protocol.Message {
	results := make([]protocol.PlayerResult, 0, len(r.Players))
	for _, p := range r.Players {
		results = append(results, protocol.PlayerResult{
			PlayerID:   p.ID.String(),
			PlayerName: p.Name,
			RoundScore: round.Scores[p.ID],
			TotalScore: p.Score,
			Details:    toProtocolDetails(round.Details[p.ID]),
		})
	}

	return protocol.MustNewMessage(protocol.MsgRoundEvaluated, protocol.RoundEvaluatedPayload{
		RoundNumber:    round.Number,
		CorrectAnswers: round.CorrectAnswers,
		Explanation:    round.Explanation,
		Results:        results,
	})
}

func toMatchDetails(labels []scoring.LabelScore) []MatchDetail {
	details := make([]MatchDetail, len(labels))
	for i, ls := range labels {
		details[i] = MatchDetail{
			Claimed:     ls.Claimed,
			MatchedWith: ls.MatchedWith,
			Score:       ls.Score,
			Explanation: ls.Explanation,
		}
	}
	return details
}

func toProtocolDetails(details []MatchDetail) []protocol.MatchDetail {
	if details == nil {
		return nil
	}
	out := make([]protocol.MatchDetail, len(details))
	for i, d := range details {
		out[i] = protocol.MatchDetail{
			Claimed:     d.Claimed,
			MatchedWith: d.MatchedWith,
			Score:       d.Score,
			Explanation: d.Explanation,
		}
	}
	return out
}
