package room

// RoomStatus 房间状态
type RoomStatus string

const (
	StatusWaiting         RoomStatus = "waiting"           // 等待玩家加入
	StatusRoundInProgress RoomStatus = "round_in_progress" // 抢选进行中
	StatusEvaluating      RoomStatus = "evaluating"        // 本轮已结算，等待进入下一轮
	StatusCompleted       RoomStatus = "completed"         // 全部轮次结束
)

// RoundStatus 轮次状态
type RoundStatus string

const (
	RoundSelecting RoundStatus = "selecting" // 抢选中
	RoundCompleted RoundStatus = "completed" // 已结算
)
