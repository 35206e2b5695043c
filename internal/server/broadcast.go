package server

import "github.com/palemoky/genre-battle/internal/protocol"

// GetOnlineCount 获取在线连接数（按需调用）
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// BroadcastToRoom 广播消息给房间内所有连接
//
// 纯扇出，不做业务判断。SendMessage 走带缓冲的发送通道，
// 慢连接不会阻塞调用方。
func (s *Server) BroadcastToRoom(roomCode string, msg *protocol.Message) {
	for _, client := range s.registry.Clients(roomCode) {
		client.SendMessage(msg)
	}
}
