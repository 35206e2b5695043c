package room

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/palemoky/genre-battle/internal/apperrors"
	"github.com/palemoky/genre-battle/internal/content"
	"github.com/palemoky/genre-battle/internal/scoring"
)

// Store 房间持久化接口
//
// 房间记录是唯一的共享可变资源，所有修改都走
// 加载 → 校验 → 修改 → 带版本检查写回 的序列。
type Store interface {
	// LoadRoom 加载房间，不存在时返回 (nil, nil)
	LoadRoom(ctx context.Context, code string) (*Room, error)
	// CreateRoom 创建房间，房间号已存在时返回 ErrRoomExists
	CreateRoom(ctx context.Context, room *Room) error
	// SaveRoomIfUnchanged 仅当存储中的版本与 room.Version 一致时写回，
	// 否则返回 ErrVersionConflict
	SaveRoomIfUnchanged(ctx context.Context, room *Room) error
	// DeleteRoom 删除房间
	DeleteRoom(ctx context.Context, code string) error
	// ListRoomCodes 列出所有房间号（清理协程用）
	ListRoomCodes(ctx context.Context) ([]string, error)
}

// Engine 房间状态机
//
// 同一房间的并发操作通过存储层的版本检查串行化：
// 写入冲突时重新加载最新状态再校验，而不是信任内存副本。
type Engine struct {
	store       Store
	provider    content.Provider
	scorer      scoring.Scorer
	saveRetries int
}

// NewEngine 创建状态机
func NewEngine(store Store, provider content.Provider, scorer scoring.Scorer, saveRetries int) *Engine {
	if saveRetries <= 0 {
		saveRetries = 3
	}
	return &Engine{
		store:       store,
		provider:    provider,
		scorer:      scorer,
		saveRetries: saveRetries,
	}
}

// Handle 分发命令
func (e *Engine) Handle(ctx context.Context, cmd Command) (*Result, error) {
	switch c := cmd.(type) {
	case CreateRoom:
		return e.createRoom(ctx, c)
	case JoinRoom:
		return e.joinRoom(ctx, c)
	case StartGame:
		return e.startGame(ctx, c)
	case SelectOption:
		return e.selectOption(ctx, c)
	case SetReady:
		return e.setReady(ctx, c)
	case EvaluateRound:
		return e.evaluateRound(ctx, c)
	case AdvanceRound:
		return e.advanceRound(ctx, c)
	case CloseRoom:
		return e.closeRoom(ctx, c)
	default:
		return nil, fmt.Errorf("未知命令类型 %T", cmd)
	}
}

// Snapshot 加载房间并生成快照（重连同步用）
func (e *Engine) Snapshot(ctx context.Context, code string) (*Room, error) {
	return e.loadRoom(ctx, code)
}

// loadRoom 加载房间，不存在时返回 ErrRoomNotFound
func (e *Engine) loadRoom(ctx context.Context, code string) (*Room, error) {
	room, err := e.store.LoadRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperrors.ErrRoomNotFound
	}
	return room, nil
}

// update 有界重试的读-改-写循环
//
// fn 在最新加载的房间上校验并修改，返回是否需要写回。
// 版本冲突时重新加载重试；重试耗尽返回 ErrRoomBusy，
// 调用方收到明确失败而不是悬挂。
func (e *Engine) update(ctx context.Context, code string, fn func(r *Room) (dirty bool, err error)) (*Room, error) {
	for attempt := 0; attempt < e.saveRetries; attempt++ {
		room, err := e.loadRoom(ctx, code)
		if err != nil {
			return nil, err
		}

		dirty, err := fn(room)
		if err != nil {
			return nil, err
		}
		if !dirty {
			return room, nil
		}

		err = e.store.SaveRoomIfUnchanged(ctx, room)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		// 版本冲突：其他写入者先提交了，重新加载再来
	}
	return nil, apperrors.ErrRoomBusy
}

// generateRoomCode 生成房间号
func generateRoomCode() string {
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
	}
	return string(code)
}
