package content

import "context"

// Option 可供抢选的选项
type Option struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// RoundContent 单轮题目内容
type RoundContent struct {
	MediaID        string   // 媒体标识（播放端用）
	Title          string   // 曲名
	Artist         string   // 艺术家
	Album          string   // 专辑
	Explanation    string   // 结算时展示的说明
	Options        []Option // 选项池
	CorrectAnswers []string // 正确选项标签，数量即每人配额
}

// Provider 题目内容提供方
//
// playerCount 用于决定选项池大小：选项数必须不少于
// playerCount × 配额，否则后加入的玩家会无项可抢。
type Provider interface {
	GetRoundContent(ctx context.Context, playerCount int) (*RoundContent, error)
}
