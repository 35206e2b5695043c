package types

import (
	"github.com/palemoky/genre-battle/internal/protocol"
)

// ClientInterface 定义客户端连接接口（用于打破循环依赖）
type ClientInterface interface {
	GetConnID() string
	GetUserID() string
	GetName() string
	GetRoom() string
	BindIdentity(userID, name string)
	SetRoom(code string)
	SendMessage(msg *protocol.Message)
	Close()
}

// ServerInterface 定义处理器所需的服务器能力
type ServerInterface interface {
	// BroadcastToRoom 将消息广播给房间内所有连接
	BroadcastToRoom(roomCode string, msg *protocol.Message)
	// BindRoom 将连接绑定到房间（加入成功后调用）
	BindRoom(client ClientInterface, roomCode string)
	// UnbindRoom 解除连接绑定，返回原房间及是否是该用户最后一条连接
	UnbindRoom(client ClientInterface) (roomCode string, lastOfUser bool)
	// ReleaseRoom 解除房间内所有连接的绑定（房间关闭后调用）
	ReleaseRoom(roomCode string)
}
