package apperrors

import (
	"github.com/palemoky/genre-battle/internal/protocol"
)

// GameError 游戏错误（房间和结算共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrRoomNotFound      = &GameError{Code: protocol.ErrCodeRoomNotFound, Message: "房间不存在"}
	ErrNotInRoom         = &GameError{Code: protocol.ErrCodeNotInRoom, Message: "您不在房间中"}
	ErrForbidden         = &GameError{Code: protocol.ErrCodeForbidden, Message: "只有房主可以执行该操作"}
	ErrInvalidState      = &GameError{Code: protocol.ErrCodeInvalidState, Message: "当前状态不允许该操作"}
	ErrNotEnoughPlayers  = &GameError{Code: protocol.ErrCodeInvalidState, Message: "至少需要 2 名玩家才能开始"}
	ErrInvalidRoundCount = &GameError{Code: protocol.ErrCodeInvalidMsg, Message: "轮数必须大于 0"}
	ErrInvalidOption     = &GameError{Code: protocol.ErrCodeInvalidMsg, Message: "无效的选项"}
	ErrAlreadyClaimed    = &GameError{Code: protocol.ErrCodeAlreadyClaimed, Message: "该选项已被其他玩家抢走"}
	ErrQuotaExceeded     = &GameError{Code: protocol.ErrCodeQuotaExceeded, Message: "您本轮的选择数量已达上限"}
	ErrUpstream          = &GameError{Code: protocol.ErrCodeUpstreamUnavailable, Message: "外部服务暂时不可用"}
	ErrRoomBusy          = &GameError{Code: protocol.ErrCodeRoomBusy, Message: "房间操作冲突，请重试"}
)
