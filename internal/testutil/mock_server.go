//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/types"
)

// MockServer 实现 types.ServerInterface 的 mock
type MockServer struct {
	mock.Mock
}

func (m *MockServer) BroadcastToRoom(roomCode string, msg *protocol.Message) {
	m.Called(roomCode, msg)
}

func (m *MockServer) BindRoom(client types.ClientInterface, roomCode string) {
	m.Called(client, roomCode)
}

func (m *MockServer) UnbindRoom(client types.ClientInterface) (string, bool) {
	args := m.Called(client)
	return args.String(0), args.Bool(1)
}

func (m *MockServer) ReleaseRoom(roomCode string) {
	m.Called(roomCode)
}

// SimpleServer 简单的服务器 mock，记录广播的消息
type SimpleServer struct {
	mu         sync.Mutex
	broadcasts map[string][]*protocol.Message
}

func NewSimpleServer() *SimpleServer {
	return &SimpleServer{broadcasts: make(map[string][]*protocol.Message)}
}

func (s *SimpleServer) BroadcastToRoom(roomCode string, msg *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts[roomCode] = append(s.broadcasts[roomCode], msg)
}

// RoomMessages 返回广播给房间的消息副本
func (s *SimpleServer) RoomMessages(roomCode string) []*protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*protocol.Message(nil), s.broadcasts[roomCode]...)
}

func (s *SimpleServer) BindRoom(client types.ClientInterface, roomCode string) {
	client.SetRoom(roomCode)
}

func (s *SimpleServer) UnbindRoom(client types.ClientInterface) (string, bool) {
	code := client.GetRoom()
	client.SetRoom("")
	return code, code != ""
}

func (s *SimpleServer) ReleaseRoom(roomCode string) {}
