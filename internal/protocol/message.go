package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing         MessageType = "ping"           // 心跳 ping
	MsgGetRoomState MessageType = "get_room_state" // 拉取房间快照（重连后同步）

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间（仅断开绑定，保留名单）
	MsgCloseRoom  MessageType = "close_room"  // 关闭房间（仅房主）

	// 对局操作
	MsgStartGame     MessageType = "start_game"     // 开始游戏（仅房主）
	MsgSelectOption  MessageType = "select_option"  // 抢选选项
	MsgSetReady      MessageType = "set_ready"      // 设置准备状态
	MsgEvaluateRound MessageType = "evaluate_round" // 结算本轮（仅房主）
	MsgNextRound     MessageType = "next_round"     // 进入下一轮（仅房主）
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家最后一条连接断开
	MsgRoomClosed   MessageType = "room_closed"   // 房间已关闭
	MsgRoomState    MessageType = "room_state"    // 房间快照

	// 对局流程
	MsgGameStarted       MessageType = "game_started"         // 游戏开始（第一轮）
	MsgNewRound          MessageType = "new_round"            // 新一轮开始
	MsgSelectResult      MessageType = "select_result"        // 抢选结果确认（仅发起者）
	MsgSelectionsUpdated MessageType = "selections_updated"   // 选项归属变化
	MsgRoundComplete     MessageType = "round_complete"       // 所有玩家达到配额
	MsgReadyUpdated      MessageType = "ready_status_updated" // 准备状态变化
	MsgRoundEvaluated    MessageType = "round_evaluated"      // 本轮结算结果
	MsgGameOver          MessageType = "game_over"            // 游戏结束（最终排名）

	// 错误
	MsgError MessageType = "error" // 错误消息
)
