package scoring

import "context"

// LabelScore 单个选项的评分
type LabelScore struct {
	Claimed     string `json:"claimed"`
	MatchedWith string `json:"matched_with,omitempty"` // 匹配到的正确标签
	Score       int    `json:"score"`                  // 0-100
	Explanation string `json:"explanation,omitempty"`
}

// Result 一名玩家的评分结果
type Result struct {
	PerLabel     []LabelScore `json:"per_label"`
	AverageScore int          `json:"average_score"`
}

// Scorer 评分服务
//
// 对一名玩家的抢选标签与本轮正确标签打分。
// 调用失败时由结算方退回本地精确匹配评分，不阻塞对局。
type Scorer interface {
	Score(ctx context.Context, claimed, correct []string) (*Result, error)
}
