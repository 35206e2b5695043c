package server

import (
	"context"
	"log"
	"time"

	"github.com/palemoky/genre-battle/internal/game/room"
)

// cleanupLoop 定期清理空置超时的房间
func (s *Server) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.done:
			return
		}
	}
}

// cleanup 清理无人连接超过保留时长的房间
func (s *Server) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	codes, err := s.store.ListRoomCodes(ctx)
	if err != nil {
		log.Printf("⚠️ 清理协程列出房间失败: %v", err)
		return
	}

	now := time.Now()
	grace := s.config.Game.RoomGraceDuration()

	for _, code := range codes {
		if s.registry.ConnCount(code) > 0 {
			continue
		}

		since, ok := s.registry.EmptySince(code)
		if !ok {
			// 创建后从未有连接的房间从本次观察开始计时
			s.registry.MarkEmpty(code, now)
			continue
		}
		if now.Sub(since) < grace {
			continue
		}

		if _, err := s.engine.Handle(ctx, room.CloseRoom{RoomCode: code, Auto: true}); err != nil {
			log.Printf("⚠️ 清理房间 %s 失败: %v", code, err)
			continue
		}
		s.registry.Forget(code)
		roomsCleaned.Inc()
		log.Printf("🧹 房间 %s 空置超时已清理", code)
	}
}
