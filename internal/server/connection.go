package server

import (
	"log"
	"net/http"

	"github.com/palemoky/genre-battle/internal/protocol"
	"github.com/palemoky/genre-battle/internal/types"
)

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket 升级失败: %v", err)
		return
	}

	client := NewClient(s, conn)
	s.registerClient(client)

	client.SendMessage(protocol.MustNewMessage(protocol.MsgConnected, protocol.ConnectedPayload{
		ConnID: client.ID,
	}))

	log.Printf("✅ 连接 %s 已建立", client.ID)

	// 启动客户端读写协程
	go client.ReadPump()
	go client.WritePump()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端连接
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端连接
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		log.Printf("❌ 连接 %s 已断开", client.ID)
	}
}

// handleClientGone 连接断开时的房间侧处理
//
// 只有该用户在房间内的最后一条连接断开时才广播 player_left；
// 玩家仍保留在名单中，重连后恢复状态。
func (s *Server) handleClientGone(client *Client) {
	roomCode, lastOfUser := s.registry.Unbind(client)
	if roomCode == "" || !lastOfUser {
		return
	}

	log.Printf("📴 玩家 %s 离开房间 %s", client.GetName(), roomCode)
	s.BroadcastToRoom(roomCode, protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetUserID(),
		PlayerName: client.GetName(),
	}))
}

// --- types.ServerInterface 实现 ---

// BindRoom 将连接绑定到房间
//
// 换绑房间时旧房间会收到 player_left，与连接断开的离开语义一致。
func (s *Server) BindRoom(client types.ClientInterface, roomCode string) {
	oldRoom, lastOfUser := s.registry.Bind(client, roomCode)
	if oldRoom == "" || !lastOfUser {
		return
	}
	s.BroadcastToRoom(oldRoom, protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   client.GetUserID(),
		PlayerName: client.GetName(),
	}))
}

// UnbindRoom 解除连接绑定
func (s *Server) UnbindRoom(client types.ClientInterface) (string, bool) {
	return s.registry.Unbind(client)
}

// ReleaseRoom 解除房间内所有连接的绑定
func (s *Server) ReleaseRoom(roomCode string) {
	s.registry.ReleaseRoom(roomCode)
}
