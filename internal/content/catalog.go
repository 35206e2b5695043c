package content

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Track 曲库中的一首曲目
type Track struct {
	MediaID     string   `yaml:"media_id"`
	Title       string   `yaml:"title"`
	Artist      string   `yaml:"artist"`
	Album       string   `yaml:"album"`
	Explanation string   `yaml:"explanation"`
	Genres      []string `yaml:"genres"` // 正确流派，数量即每人配额
}

// catalogFile 曲库文件结构
type catalogFile struct {
	Tracks      []Track  `yaml:"tracks"`
	Distractors []Option `yaml:"distractors"` // 干扰选项池
}

// Catalog 基于本地曲库的内容提供方
//
// 曲目按随机顺序轮转，一轮用过的曲目在全部用完前不会重复。
type Catalog struct {
	tracks      []Track
	distractors []Option
	descrs      map[string]string // 流派 → 描述

	mu    sync.Mutex
	order []int // 洗牌后的曲目下标
	next  int
}

// LoadCatalog 从 yaml 文件加载曲库
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取曲库文件失败: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("解析曲库文件失败: %w", err)
	}

	return NewCatalog(file.Tracks, file.Distractors)
}

// NewCatalog 创建曲库
func NewCatalog(tracks []Track, distractors []Option) (*Catalog, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("曲库为空")
	}

	c := &Catalog{
		tracks:      tracks,
		distractors: distractors,
		descrs:      make(map[string]string, len(distractors)),
	}
	for _, d := range distractors {
		c.descrs[d.Label] = d.Description
	}
	c.reshuffle()

	return c, nil
}

// GetRoundContent 按玩家数量生成一轮题目
func (c *Catalog) GetRoundContent(_ context.Context, playerCount int) (*RoundContent, error) {
	track := c.nextTrack()
	quota := len(track.Genres)
	if quota == 0 {
		return nil, fmt.Errorf("曲目 %s 未标注流派", track.Title)
	}

	// 选项池至少 playerCount × 配额，不足时后加入的玩家无项可抢
	want := playerCount*quota + 2

	options := make([]Option, 0, want)
	correct := make(map[string]bool, quota)
	for _, g := range track.Genres {
		correct[g] = true
		options = append(options, Option{Label: g, Description: c.descrs[g]})
	}

	// 补足干扰项，跳过与正确答案重名的
	for _, idx := range rand.Perm(len(c.distractors)) {
		if len(options) >= want {
			break
		}
		d := c.distractors[idx]
		if correct[d.Label] {
			continue
		}
		options = append(options, d)
	}

	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &RoundContent{
		MediaID:        track.MediaID,
		Title:          track.Title,
		Artist:         track.Artist,
		Album:          track.Album,
		Explanation:    track.Explanation,
		Options:        options,
		CorrectAnswers: append([]string(nil), track.Genres...),
	}, nil
}

// nextTrack 取下一首曲目，轮转用完后重新洗牌
func (c *Catalog) nextTrack() Track {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.next >= len(c.order) {
		c.reshuffle()
	}
	track := c.tracks[c.order[c.next]]
	c.next++
	return track
}

func (c *Catalog) reshuffle() {
	c.order = rand.Perm(len(c.tracks))
	c.next = 0
}
