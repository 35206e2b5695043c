package scoring

import "context"

// ExactScorer 本地精确匹配评分
//
// 抢选标签与尚未被匹配的正确标签完全一致记 100 分，否则 0 分。
// 作为外部评分服务不可用时的兜底，保证结算永远能完成。
type ExactScorer struct{}

// Score 实现 Scorer
func (ExactScorer) Score(_ context.Context, claimed, correct []string) (*Result, error) {
	matched := make(map[string]bool, len(correct))
	result := &Result{PerLabel: make([]LabelScore, 0, len(claimed))}

	total := 0
	for _, label := range claimed {
		ls := LabelScore{Claimed: label}
		for _, c := range correct {
			if label == c && !matched[c] {
				matched[c] = true
				ls.MatchedWith = c
				ls.Score = 100
				ls.Explanation = "精确匹配"
				break
			}
		}
		total += ls.Score
		result.PerLabel = append(result.PerLabel, ls)
	}

	if len(claimed) > 0 {
		result.AverageScore = total / len(claimed)
	}

	return result, nil
}
