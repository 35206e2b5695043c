package protocol

// --- 公共 DTO ---

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsCreator bool   `json:"is_creator"`
	Score     int    `json:"score"`
}

// OptionInfo 选项信息
type OptionInfo struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// RoundView 当前轮次视图（不包含正确答案）
type RoundView struct {
	Number     int                 `json:"number"`
	MediaID    string              `json:"media_id"`
	Title      string              `json:"title"`
	Artist     string              `json:"artist"`
	Album      string              `json:"album,omitempty"`
	Options    []OptionInfo        `json:"options"`
	Quota      int                 `json:"quota"`
	Selections map[string][]string `json:"selections"` // 玩家 ID → 已抢选项
	Status     string              `json:"status"`
}

// RoomSnapshot 房间快照
type RoomSnapshot struct {
	RoomCode     string          `json:"room_code"`
	Status       string          `json:"status"`
	RoundCount   int             `json:"round_count"`
	CurrentRound int             `json:"current_round"`
	Players      []PlayerInfo    `json:"players"`
	Round        *RoundView      `json:"round,omitempty"`
	Ready        map[string]bool `json:"ready,omitempty"`
}

// MatchDetail 单个选项的评分明细
type MatchDetail struct {
	Claimed     string `json:"claimed"`
	MatchedWith string `json:"matched_with,omitempty"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation,omitempty"`
}

// PlayerResult 单个玩家的本轮结算
type PlayerResult struct {
	PlayerID   string        `json:"player_id"`
	PlayerName string        `json:"player_name"`
	RoundScore int           `json:"round_score"`
	TotalScore int           `json:"total_score"`
	Details    []MatchDetail `json:"details,omitempty"`
}

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CreateRoomPayload 创建房间请求
type CreateRoomPayload struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	RoundCount int    `json:"round_count"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
}

// SelectOptionPayload 抢选选项请求
type SelectOptionPayload struct {
	Label string `json:"label"`
}

// SetReadyPayload 设置准备状态请求
type SetReadyPayload struct {
	Ready bool `json:"ready"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnID string `json:"conn_id"` // 本条连接的 ID
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"`
	ServerTimestamp int64 `json:"server_timestamp"`
}

// RoomCreatedPayload 房间创建成功响应
type RoomCreatedPayload struct {
	Room RoomSnapshot `json:"room"`
}

// RoomJoinedPayload 加入房间成功响应
type RoomJoinedPayload struct {
	Room RoomSnapshot `json:"room"`
}

// PlayerJoinedPayload 其他玩家加入通知
type PlayerJoinedPayload struct {
	Player  PlayerInfo   `json:"player"`
	Players []PlayerInfo `json:"players"`
}

// PlayerLeftPayload 玩家离开通知
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// RoomClosedPayload 房间关闭通知
type RoomClosedPayload struct {
	RoomCode string `json:"room_code"`
}

// RoomStatePayload 房间快照响应
type RoomStatePayload struct {
	Room RoomSnapshot `json:"room"`
}

// NewRoundPayload 新一轮开始通知（game_started 与 new_round 共用）
type NewRoundPayload struct {
	Round   RoundView    `json:"round"`
	Players []PlayerInfo `json:"players"`
}

// SelectResultPayload 抢选结果确认（仅发给发起者）
type SelectResultPayload struct {
	Success    bool     `json:"success"`
	Code       int      `json:"code,omitempty"`    // 失败原因码
	Reason     string   `json:"reason,omitempty"`  // 失败原因
	Label      string   `json:"label"`
	Selections []string `json:"selections"` // 发起者的最新选择列表
}

// SelectionsUpdatedPayload 选项归属变化通知
type SelectionsUpdatedPayload struct {
	Selections map[string][]string `json:"selections"`
}

// RoundCompletePayload 全员达标通知（结算仍是单独一步）
type RoundCompletePayload struct {
	RoundNumber int `json:"round_number"`
}

// ReadyUpdatedPayload 准备状态变化通知
type ReadyUpdatedPayload struct {
	Ready    map[string]bool `json:"ready"`
	AllReady bool            `json:"all_ready"`
}

// RoundEvaluatedPayload 本轮结算结果通知
type RoundEvaluatedPayload struct {
	RoundNumber    int            `json:"round_number"`
	CorrectAnswers []string       `json:"correct_answers"`
	Explanation    string         `json:"explanation,omitempty"`
	Results        []PlayerResult `json:"results"` // 按名单顺序
}

// GameOverPayload 游戏结束通知
type GameOverPayload struct {
	Standings []PlayerInfo `json:"standings"` // 按总分降序，同分按加入顺序
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
