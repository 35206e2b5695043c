package room

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/content"
	"github.com/palemoky/genre-battle/internal/protocol"
)

// createRoom 创建房间
func (e *Engine) createRoom(ctx context.Context, cmd CreateRoom) (*Result, error) {
	if cmd.RoundCount <= 0 {
		return nil, apperrors.ErrInvalidRoundCount
	}

	// 房间号随机生成，撞号时换一个重试
	var room *Room
	for attempt := 0; attempt < e.saveRetries; attempt++ {
		room = newRoom(generateRoomCode(), cmd.Actor, cmd.Name, cmd.RoundCount)
		err := e.store.CreateRoom(ctx, room)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrRoomExists) {
			return nil, err
		}
		room = nil
	}
	if room == nil {
		return nil, apperrors.ErrRoomBusy
	}

	log.Printf("🏠 房间 %s 已创建，房主 %s，共 %d 轮", room.Code, cmd.Name, cmd.RoundCount)

	return &Result{
		Room: room,
		Events: []Event{
			callerEvent(protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
				Room: room.Snapshot(),
			})),
		},
	}, nil
}

// joinRoom 加入房间
//
// 幂等：已在名单中的玩家直接恢复状态，不会重复添加；
// 新玩家只能在等待阶段加入。
func (e *Engine) joinRoom(ctx context.Context, cmd JoinRoom) (*Result, error) {
	var joined *Player

	room, err := e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
		joined = nil
		if r.Player(cmd.Actor) != nil {
			return false, nil // 重连恢复
		}
		if r.Status != StatusWaiting {
			return false, apperrors.ErrInvalidState
		}
		joined = &Player{ID: cmd.Actor, Name: cmd.Name}
		r.Players = append(r.Players, joined)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	events := []Event{
		callerEvent(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
			Room: room.Snapshot(),
		})),
	}
	if joined != nil {
		log.Printf("👤 玩家 %s 加入房间 %s", cmd.Name, cmd.RoomCode)
		events = append(events, roomEvent(protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
			Player:  playerInfo(joined),
			Players: playersInfo(room.Players),
		})))
	}

	return &Result{Room: room, Events: events}, nil
}

// startGame 开始游戏，进入第一轮
func (e *Engine) startGame(ctx context.Context, cmd StartGame) (*Result, error) {
	// 先读一次做预检并确定玩家数，内容获取不在持久化循环内
	room, err := e.loadRoom(ctx, cmd.RoomCode)
	if err != nil {
		return nil, err
	}
	if !room.IsCreator(cmd.Actor) {
		return nil, apperrors.ErrForbidden
	}
	if room.Status != StatusWaiting {
		return nil, apperrors.ErrInvalidState
	}
	if len(room.Players) < 2 {
		return nil, apperrors.ErrNotEnoughPlayers
	}

	rc, err := e.fetchContent(ctx, len(room.Players))
	if err != nil {
		return nil, err
	}

	room, err = e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
		// 基于最新状态重新校验
		if r.Status != StatusWaiting {
			return false, apperrors.ErrInvalidState
		}
		if !r.IsCreator(cmd.Actor) {
			return false, apperrors.ErrForbidden
		}
		if len(r.Players) < 2 {
			return false, apperrors.ErrNotEnoughPlayers
		}
		r.beginRound(rc)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎵 房间 %s 游戏开始，%d 名玩家", room.Code, len(room.Players))

	return &Result{
		Room: room,
		Events: []Event{
			roomEvent(protocol.MustNewMessage(protocol.MsgGameStarted, protocol.NewRoundPayload{
				Round:   roundView(room.ActiveRound()),
				Players: playersInfo(room.Players),
			})),
		},
	}, nil
}

// advanceRound 进入下一轮，最后一轮之后结束游戏
func (e *Engine) advanceRound(ctx context.Context, cmd AdvanceRound) (*Result, error) {
	room, err := e.loadRoom(ctx, cmd.RoomCode)
	if err != nil {
		return nil, err
	}
	if !cmd.Auto && !room.IsCreator(cmd.Actor) {
		return nil, apperrors.ErrForbidden
	}
	if room.Status != StatusEvaluating {
		return nil, apperrors.ErrInvalidState
	}

	prev := room.CurrentRound

	// 最后一轮结算完毕 → 游戏结束
	if room.CurrentRound+1 >= room.RoundCount {
		room, err = e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
			if r.Status != StatusEvaluating || r.CurrentRound != prev {
				return false, apperrors.ErrInvalidState
			}
			if !cmd.Auto && !r.IsCreator(cmd.Actor) {
				return false, apperrors.ErrForbidden
			}
			r.Status = StatusCompleted
			return true, nil
		})
		if err != nil {
			return nil, err
		}

		log.Printf("🏁 房间 %s 游戏结束", room.Code)

		return &Result{
			Room: room,
			Events: []Event{
				roomEvent(protocol.MustNewMessage(protocol.MsgGameOver, protocol.GameOverPayload{
					Standings: playersInfo(room.Standings()),
				})),
			},
		}, nil
	}

	rc, err := e.fetchContent(ctx, len(room.Players))
	if err != nil {
		return nil, err
	}

	room, err = e.update(ctx, cmd.RoomCode, func(r *Room) (bool, error) {
		// 并发推进时只有先提交的生效
		if r.Status != StatusEvaluating || r.CurrentRound != prev {
			return false, apperrors.ErrInvalidState
		}
		if !cmd.Auto && !r.IsCreator(cmd.Actor) {
			return false, apperrors.ErrForbidden
		}
		r.beginRound(rc)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("▶️ 房间 %s 进入第 %d 轮", room.Code, room.CurrentRound+1)

	return &Result{
		Room: room,
		Events: []Event{
			roomEvent(protocol.MustNewMessage(protocol.MsgNewRound, protocol.NewRoundPayload{
				Round:   roundView(room.ActiveRound()),
				Players: playersInfo(room.Players),
			})),
		},
	}, nil
}

// closeRoom 关闭房间
func (e *Engine) closeRoom(ctx context.Context, cmd CloseRoom) (*Result, error) {
	room, err := e.loadRoom(ctx, cmd.RoomCode)
	if err != nil {
		return nil, err
	}
	if !cmd.Auto && !room.IsCreator(cmd.Actor) {
		return nil, apperrors.ErrForbidden
	}

	if err := e.store.DeleteRoom(ctx, cmd.RoomCode); err != nil {
		return nil, err
	}

	log.Printf("🏠 房间 %s 已关闭", cmd.RoomCode)

	return &Result{
		Room: room,
		Events: []Event{
			roomEvent(protocol.MustNewMessage(protocol.MsgRoomClosed, protocol.RoomClosedPayload{
				RoomCode: cmd.RoomCode,
			})),
		},
	}, nil
}

// fetchContent 获取一轮题目内容，失败映射为上游错误
func (e *Engine) fetchContent(ctx context.Context, playerCount int) (*content.RoundContent, error) {
	rc, err := e.provider.GetRoundContent(ctx, playerCount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	return rc, nil
}
