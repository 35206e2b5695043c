package room

import (
	"errors"
	"sort"
	"time"

	"github.com/palemoky/genre-battle/internal/content"
)

const (
	roomCodeLength = 6                                 // 房间号长度
	roomCodeChars  = "ABCDEFGHJKMNPQRSTUVWXYZ23456789" // 去掉易混淆字符的房间号字符集
)

// 存储层哨兵错误
var (
	// ErrVersionConflict 乐观写入时版本已变化
	ErrVersionConflict = errors.New("room version conflict")
	// ErrRoomExists 创建房间时房间号已存在
	ErrRoomExists = errors.New("room already exists")
)

// PlayerID 玩家的稳定身份标识
//
// 允许任意字符串（例如邮箱）。排序与比较使用字符串序，
// 持久化编码统一走 JSON 对象键，不依赖存储层的键规则。
type PlayerID string

func (id PlayerID) String() string { return string(id) }

// Player 房间名单中的玩家
type Player struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	IsCreator bool     `json:"is_creator"`
	Score     int      `json:"score"` // 累计得分，结算后只增不减
}

// MatchDetail 单个抢选标签的评分明细
type MatchDetail struct {
	Claimed     string `json:"claimed"`
	MatchedWith string `json:"matched_with,omitempty"`
	Score       int    `json:"score"`
	Explanation string `json:"explanation,omitempty"`
}

// Round 一轮题目
type Round struct {
	Number         int                        `json:"number"`
	MediaID        string                     `json:"media_id"`
	Title          string                     `json:"title"`
	Artist         string                     `json:"artist"`
	Album          string                     `json:"album,omitempty"`
	Explanation    string                     `json:"explanation,omitempty"`
	Options        []content.Option           `json:"options"`
	CorrectAnswers []string                   `json:"correct_answers"`
	Selections     map[PlayerID][]string      `json:"selections"`
	Scores         map[PlayerID]int           `json:"scores,omitempty"`
	Details        map[PlayerID][]MatchDetail `json:"details,omitempty"`
	Status         RoundStatus                `json:"status"`
}

// Quota 每名玩家本轮需要抢选的标签数量
func (r *Round) Quota() int {
	return len(r.CorrectAnswers)
}

// ClaimedBy 返回持有该标签的玩家
func (r *Round) ClaimedBy(label string) (PlayerID, bool) {
	for id, labels := range r.Selections {
		for _, l := range labels {
			if l == label {
				return id, true
			}
		}
	}
	return "", false
}

// HasOption 标签是否在本轮选项池中
func (r *Round) HasOption(label string) bool {
	for _, opt := range r.Options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

// QuotaMetByAll 全部玩家是否都已达到配额
func (r *Round) QuotaMetByAll(players []*Player) bool {
	for _, p := range players {
		if len(r.Selections[p.ID]) < r.Quota() {
			return false
		}
	}
	return len(players) > 0
}

// Room 一场对局
type Room struct {
	Code         string            `json:"code"`
	CreatorID    PlayerID          `json:"creator_id"`
	Status       RoomStatus        `json:"status"`
	RoundCount   int               `json:"round_count"`
	CurrentRound int               `json:"current_round"`
	Players      []*Player         `json:"players"` // 按加入顺序
	Rounds       []*Round          `json:"rounds"`
	Ready        map[PlayerID]bool `json:"ready"` // 仅对当前 evaluating 轮次有效
	CreatedAt    int64             `json:"created_at"`

	// Version 乐观并发控制的版本号，由存储层在每次成功写入时递增
	Version int64 `json:"version"`
}

// Player 按 ID 查找玩家，不存在返回 nil
func (r *Room) Player(id PlayerID) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IsCreator 该玩家是否是房主
func (r *Room) IsCreator(id PlayerID) bool {
	return id == r.CreatorID
}

// ActiveRound 当前轮次，游戏未开始返回 nil
func (r *Room) ActiveRound() *Round {
	if r.CurrentRound < 0 || r.CurrentRound >= len(r.Rounds) {
		return nil
	}
	return r.Rounds[r.CurrentRound]
}

// beginRound 用新内容开启一轮：追加轮次、重置准备状态
func (r *Room) beginRound(rc *content.RoundContent) *Round {
	round := &Round{
		Number:         len(r.Rounds),
		MediaID:        rc.MediaID,
		Title:          rc.Title,
		Artist:         rc.Artist,
		Album:          rc.Album,
		Explanation:    rc.Explanation,
		Options:        rc.Options,
		CorrectAnswers: rc.CorrectAnswers,
		Selections:     make(map[PlayerID][]string),
		Status:         RoundSelecting,
	}
	r.Rounds = append(r.Rounds, round)
	r.CurrentRound = round.Number
	r.Status = StatusRoundInProgress
	r.resetReady()
	return round
}

// resetReady 将所有玩家的准备状态重置为 false
func (r *Room) resetReady() {
	r.Ready = make(map[PlayerID]bool, len(r.Players))
	for _, p := range r.Players {
		r.Ready[p.ID] = false
	}
}

// allReady 当前名单中的玩家是否全部准备
func (r *Room) allReady() bool {
	for _, p := range r.Players {
		if !r.Ready[p.ID] {
			return false
		}
	}
	return len(r.Players) > 0
}

// Standings 最终排名：总分降序，同分按加入顺序
func (r *Room) Standings() []*Player {
	standings := make([]*Player, len(r.Players))
	copy(standings, r.Players)
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

// newRoom 创建一个等待中的房间
func newRoom(code string, creator PlayerID, name string, roundCount int) *Room {
	return &Room{
		Code:       code,
		CreatorID:  creator,
		Status:     StatusWaiting,
		RoundCount: roundCount,
		Players: []*Player{
			{ID: creator, Name: name, IsCreator: true},
		},
		Ready:     make(map[PlayerID]bool),
		CreatedAt: time.Now().Unix(),
	}
}
