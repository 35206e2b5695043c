package server

import (
	"sync"
	"time"

	"github.com/palemoky/genre-battle/internal/types"
)

// Registry 连接注册表
//
// 维护 连接 → (用户, 房间) 的绑定，并按房间分组供广播使用。
// 同一用户允许多条连接（多开标签页/设备），只有最后一条断开
// 时才算真正离开。
type Registry struct {
	mu sync.RWMutex

	// roomCode → connID → client
	rooms map[string]map[string]types.ClientInterface
	// 房间无连接的起始时间，清理协程用
	emptySince map[string]time.Time
}

// NewRegistry 创建连接注册表
func NewRegistry() *Registry {
	return &Registry{
		rooms:      make(map[string]map[string]types.ClientInterface),
		emptySince: make(map[string]time.Time),
	}
}

// Bind 将连接绑定到房间
//
// 连接此前绑定在其他房间时，按 Unbind 相同的离开语义解除旧绑定，
// 返回旧房间号与这是否是该用户在旧房间的最后一条连接，
// 供调用方补发 player_left。
func (reg *Registry) Bind(client types.ClientInterface, roomCode string) (oldRoom string, lastOfUser bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	// 先解除旧房间的绑定
	if old := client.GetRoom(); old != "" && old != roomCode {
		oldRoom = old
		reg.removeLocked(old, client.GetConnID())
		lastOfUser = true
		for _, c := range reg.rooms[old] {
			if c.GetUserID() == client.GetUserID() {
				lastOfUser = false
				break
			}
		}
	}

	conns, ok := reg.rooms[roomCode]
	if !ok {
		conns = make(map[string]types.ClientInterface)
		reg.rooms[roomCode] = conns
	}
	conns[client.GetConnID()] = client
	client.SetRoom(roomCode)
	delete(reg.emptySince, roomCode)
	return oldRoom, lastOfUser
}

// Unbind 解除连接绑定
//
// 返回该连接此前所在的房间，以及这是否是该用户在房间内的
// 最后一条连接（此时才应广播 player_left）。
func (reg *Registry) Unbind(client types.ClientInterface) (roomCode string, lastOfUser bool) {
	roomCode = client.GetRoom()
	if roomCode == "" {
		return "", false
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.removeLocked(roomCode, client.GetConnID())
	client.SetRoom("")

	// 同一用户还有其他在线连接时不算离开
	for _, c := range reg.rooms[roomCode] {
		if c.GetUserID() == client.GetUserID() {
			return roomCode, false
		}
	}
	return roomCode, true
}

// removeLocked 从房间分组中移除连接，需持有写锁
func (reg *Registry) removeLocked(roomCode, connID string) {
	conns, ok := reg.rooms[roomCode]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(reg.rooms, roomCode)
		reg.emptySince[roomCode] = time.Now()
	}
}

// Clients 房间内的所有连接
func (reg *Registry) Clients(roomCode string) []types.ClientInterface {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	conns := reg.rooms[roomCode]
	clients := make([]types.ClientInterface, 0, len(conns))
	for _, c := range conns {
		clients = append(clients, c)
	}
	return clients
}

// ConnCount 房间内的连接数
func (reg *Registry) ConnCount(roomCode string) int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms[roomCode])
}

// EmptySince 房间无连接的起始时间
func (reg *Registry) EmptySince(roomCode string) (time.Time, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	since, ok := reg.emptySince[roomCode]
	return since, ok
}

// MarkEmpty 为从未有过连接的房间补记空置时间
func (reg *Registry) MarkEmpty(roomCode string, at time.Time) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[roomCode]; ok {
		return
	}
	if _, ok := reg.emptySince[roomCode]; !ok {
		reg.emptySince[roomCode] = at
	}
}

// ReleaseRoom 解除房间内所有连接的绑定（房间关闭后调用）
func (reg *Registry) ReleaseRoom(roomCode string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, c := range reg.rooms[roomCode] {
		c.SetRoom("")
	}
	delete(reg.rooms, roomCode)
	delete(reg.emptySince, roomCode)
}

// Forget 丢弃房间的空置记录（房间删除后调用）
func (reg *Registry) Forget(roomCode string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.emptySince, roomCode)
}
