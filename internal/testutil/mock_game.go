//go:build !production

package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/genre-battle/internal/content"
	"github.com/palemoky/genre-battle/internal/game/room"
	"github.com/palemoky/genre-battle/internal/scoring"
)

// MemoryStore 内存实现的 room.Store（测试用）
type MemoryStore struct {
	mu    sync.Mutex
	rooms map[string]*room.Room

	// SaveHook 每次写回前调用，可注入并发冲突
	SaveHook func(r *room.Room)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*room.Room)}
}

func (s *MemoryStore) LoadRoom(ctx context.Context, code string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, nil
	}
	return cloneRoom(r), nil
}

func (s *MemoryStore) CreateRoom(ctx context.Context, r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[r.Code]; ok {
		return room.ErrRoomExists
	}
	r.Version = 1
	s.rooms[r.Code] = cloneRoom(r)
	return nil
}

func (s *MemoryStore) SaveRoomIfUnchanged(ctx context.Context, r *room.Room) error {
	if s.SaveHook != nil {
		s.SaveHook(r)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.rooms[r.Code]
	if !ok || stored.Version != r.Version {
		return room.ErrVersionConflict
	}
	r.Version++
	s.rooms[r.Code] = cloneRoom(r)
	return nil
}

func (s *MemoryStore) DeleteRoom(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

func (s *MemoryStore) ListRoomCodes(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	codes := make([]string, 0, len(s.rooms))
	for code := range s.rooms {
		codes = append(codes, code)
	}
	return codes, nil
}

// Bump 直接提升存储中的版本（模拟其他写入者抢先提交）
func (s *MemoryStore) Bump(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[code]; ok {
		r.Version++
	}
}

// cloneRoom 深拷贝，调用方修改返回值不影响存储
func cloneRoom(r *room.Room) *room.Room {
	data, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	var clone room.Room
	if err := json.Unmarshal(data, &clone); err != nil {
		panic(err)
	}
	clone.Version = r.Version
	return &clone
}

// FixedProvider 固定返回同一份题目内容
type FixedProvider struct {
	Content *content.RoundContent
	Err     error

	mu    sync.Mutex
	calls int
}

func (p *FixedProvider) GetRoundContent(ctx context.Context, playerCount int) (*content.RoundContent, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	c := *p.Content
	return &c, nil
}

func (p *FixedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// TwoGenreContent 两个正确选项 + 两个干扰项的标准测试题目
func TwoGenreContent() *content.RoundContent {
	return &content.RoundContent{
		MediaID:        "m-001",
		Title:          "Test Track",
		Artist:         "Test Artist",
		Explanation:    "测试说明",
		Options:        []content.Option{{Label: "Jazz"}, {Label: "Funk"}, {Label: "Pop"}, {Label: "Metal"}},
		CorrectAnswers: []string{"Jazz", "Funk"},
	}
}

// MockScorer 评分服务 mock
type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, claimed, correct []string) (*scoring.Result, error) {
	args := m.Called(ctx, claimed, correct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.Result), args.Error(1)
}

// FailingScorer 总是失败的评分服务（驱动本地回退路径）
type FailingScorer struct {
	Err error

	mu    sync.Mutex
	calls int
}

func (s *FailingScorer) Score(ctx context.Context, claimed, correct []string) (*scoring.Result, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return nil, s.Err
}

func (s *FailingScorer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
