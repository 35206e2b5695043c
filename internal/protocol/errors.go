package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001

	ErrCodeRoomNotFound = 2001
	ErrCodeNotInRoom    = 2002
	ErrCodeForbidden    = 2003 // 仅房主可执行
	ErrCodeInvalidState = 2004 // 当前状态不允许该操作

	ErrCodeAlreadyClaimed = 3001 // 选项已被他人抢走
	ErrCodeQuotaExceeded  = 3002 // 已达到本轮配额

	ErrCodeUpstreamUnavailable = 5001 // 外部服务不可用
	ErrCodeRoomBusy            = 5002 // 并发写入冲突重试耗尽
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:             "未知错误",
	ErrCodeInvalidMsg:          "无效的消息格式",
	ErrCodeRoomNotFound:        "房间不存在",
	ErrCodeNotInRoom:           "您不在房间中",
	ErrCodeForbidden:           "只有房主可以执行该操作",
	ErrCodeInvalidState:        "当前状态不允许该操作",
	ErrCodeAlreadyClaimed:      "该选项已被其他玩家抢走",
	ErrCodeQuotaExceeded:       "您本轮的选择数量已达上限",
	ErrCodeUpstreamUnavailable: "服务暂时不可用，请稍后重试",
	ErrCodeRoomBusy:            "房间操作冲突，请重试",
}
