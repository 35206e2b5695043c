package room

import "github.com/palemoky/genre-battle/internal/protocol"

// Command 房间操作命令
//
// 每条入站消息对应一条命令，统一经 Engine.Handle 分发，
// 便于在没有真实传输层的情况下测试整个状态机。
type Command interface {
	isCommand()
}

// CreateRoom 创建房间
type CreateRoom struct {
	Actor      PlayerID
	Name       string
	RoundCount int
}

// JoinRoom 加入房间（幂等，已是成员时恢复状态）
type JoinRoom struct {
	RoomCode string
	Actor    PlayerID
	Name     string
}

// StartGame 开始游戏（仅房主）
type StartGame struct {
	RoomCode string
	Actor    PlayerID
}

// SelectOption 抢选选项
type SelectOption struct {
	RoomCode string
	Actor    PlayerID
	Label    string
}

// SetReady 设置准备状态
type SetReady struct {
	RoomCode string
	Actor    PlayerID
	Ready    bool
}

// EvaluateRound 结算当前轮次。Auto 为内部自动触发，跳过房主校验
type EvaluateRound struct {
	RoomCode string
	Actor    PlayerID
	Auto     bool
}

// AdvanceRound 进入下一轮或结束游戏。Auto 为全员准备后的自动触发
type AdvanceRound struct {
	RoomCode string
	Actor    PlayerID
	Auto     bool
}

// CloseRoom 关闭房间。Auto 为空房清理触发
type CloseRoom struct {
	RoomCode string
	Actor    PlayerID
	Auto     bool
}

func (CreateRoom) isCommand()    {}
func (JoinRoom) isCommand()      {}
func (StartGame) isCommand()     {}
func (SelectOption) isCommand()  {}
func (SetReady) isCommand()      {}
func (EvaluateRound) isCommand() {}
func (AdvanceRound) isCommand()  {}
func (CloseRoom) isCommand()     {}

// EventScope 事件投递范围
type EventScope int

const (
	ToCaller EventScope = iota // 仅发给命令发起者
	ToRoom                     // 广播给房间内所有连接
)

// Event 命令产生的出站事件
type Event struct {
	Scope EventScope
	Msg   *protocol.Message
}

// Result 命令执行结果
type Result struct {
	Room   *Room
	Events []Event

	// RoundComplete 本次操作使所有玩家首次达到配额
	RoundComplete bool
	// AllReady 准备状态首次全部变为 true（边沿触发）
	AllReady bool
}

func callerEvent(msg *protocol.Message) Event { return Event{Scope: ToCaller, Msg: msg} }
func roomEvent(msg *protocol.Message) Event   { return Event{Scope: ToRoom, Msg: msg} }
