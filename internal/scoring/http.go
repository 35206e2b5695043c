package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPScorer 外部评分服务的 HTTP 适配器
type HTTPScorer struct {
	url    string
	client *http.Client
}

// NewHTTPScorer 创建 HTTP 评分适配器
func NewHTTPScorer(url string, timeout time.Duration) *HTTPScorer {
	return &HTTPScorer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// scoreRequest 评分请求体
type scoreRequest struct {
	Claimed []string `json:"claimed"`
	Correct []string `json:"correct"`
}

// Score 实现 Scorer
func (s *HTTPScorer) Score(ctx context.Context, claimed, correct []string) (*Result, error) {
	body, err := json.Marshal(scoreRequest{Claimed: claimed, Correct: correct})
	if err != nil {
		return nil, fmt.Errorf("序列化评分请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建评分请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("评分服务请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("评分服务返回 %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("解析评分响应失败: %w", err)
	}

	return &result, nil
}
