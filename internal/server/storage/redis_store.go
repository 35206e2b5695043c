package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/genre-battle/internal/game/room"
)

const (
	// Redis key 前缀
	roomKeyPrefix = "room:"

	// 房间数据过期时间（兜底，正常关闭走 DeleteRoom）
	roomExpiration = 2 * time.Hour
)

// RedisStore 房间的 Redis 存储
//
// 房间记录整体 JSON 序列化，带版本号。写回通过 WATCH/MULTI
// 校验版本，实现 room.Store 要求的 save-if-unchanged 语义。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func roomKey(code string) string {
	return roomKeyPrefix + code
}

// LoadRoom 加载房间，不存在时返回 (nil, nil)
func (rs *RedisStore) LoadRoom(ctx context.Context, code string) (*room.Room, error) {
	data, err := rs.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var r room.Room
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("反序列化房间数据失败: %w", err)
	}

	return &r, nil
}

// CreateRoom 创建房间，房间号已存在时返回 room.ErrRoomExists
func (rs *RedisStore) CreateRoom(ctx context.Context, r *room.Room) error {
	r.Version = 1

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("序列化房间数据失败: %w", err)
	}

	ok, err := rs.client.SetNX(ctx, roomKey(r.Code), data, roomExpiration).Result()
	if err != nil {
		return err
	}
	if !ok {
		return room.ErrRoomExists
	}
	return nil
}

// SaveRoomIfUnchanged 版本一致时写回并递增版本，否则返回 room.ErrVersionConflict
//
// WATCH 保证版本检查与写入之间没有其他提交；房间在检查期间
// 被删除同样视为冲突，调用方重新加载后会得到 NotFound。
func (rs *RedisStore) SaveRoomIfUnchanged(ctx context.Context, r *room.Room) error {
	key := roomKey(r.Code)
	expected := r.Version

	err := rs.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return room.ErrVersionConflict
			}
			return err
		}

		var current struct {
			Version int64 `json:"version"`
		}
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("反序列化房间数据失败: %w", err)
		}
		if current.Version != expected {
			return room.ErrVersionConflict
		}

		r.Version = expected + 1
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("序列化房间数据失败: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, roomExpiration)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) || errors.Is(err, room.ErrVersionConflict) {
		r.Version = expected
		return room.ErrVersionConflict
	}
	if err != nil {
		r.Version = expected
	}
	return err
}

// DeleteRoom 删除房间
func (rs *RedisStore) DeleteRoom(ctx context.Context, code string) error {
	return rs.client.Del(ctx, roomKey(code)).Err()
}

// ListRoomCodes 列出所有房间号
func (rs *RedisStore) ListRoomCodes(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, roomKeyPrefix+"*").Result()
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(keys))
	for i, key := range keys {
		codes[i] = key[len(roomKeyPrefix):]
	}
	return codes, nil
}
