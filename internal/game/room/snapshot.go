package room

import "github.com/palemoky/genre-battle/internal/protocol"

// Snapshot 生成房间快照
//
// 快照发给客户端，当前轮次视图不包含正确答案。
func (r *Room) Snapshot() protocol.RoomSnapshot {
	snap := protocol.RoomSnapshot{
		RoomCode:     r.Code,
		Status:       string(r.Status),
		RoundCount:   r.RoundCount,
		CurrentRound: r.CurrentRound,
		Players:      playersInfo(r.Players),
	}

	if round := r.ActiveRound(); round != nil {
		view := roundView(round)
		snap.Round = &view
	}
	if r.Status == StatusEvaluating {
		snap.Ready = readyView(r)
	}

	return snap
}

// roundView 轮次视图，隐藏正确答案
func roundView(round *Round) protocol.RoundView {
	options := make([]protocol.OptionInfo, len(round.Options))
	for i, opt := range round.Options {
		options[i] = protocol.OptionInfo{Label: opt.Label, Description: opt.Description}
	}

	return protocol.RoundView{
		Number:     round.Number,
		MediaID:    round.MediaID,
		Title:      round.Title,
		Artist:     round.Artist,
		Album:      round.Album,
		Options:    options,
		Quota:      round.Quota(),
		Selections: selectionsView(round),
		Status:     string(round.Status),
	}
}

// selectionsView 选项归属视图
func selectionsView(round *Round) map[string][]string {
	view := make(map[string][]string, len(round.Selections))
	for id, labels := range round.Selections {
		view[id.String()] = append([]string(nil), labels...)
	}
	return view
}

// readyView 准备状态视图
func readyView(r *Room) map[string]bool {
	view := make(map[string]bool, len(r.Ready))
	for id, ready := range r.Ready {
		view[id.String()] = ready
	}
	return view
}

func playerInfo(p *Player) protocol.PlayerInfo {
	return protocol.PlayerInfo{
		ID:        p.ID.String(),
		Name:      p.Name,
		IsCreator: p.IsCreator,
		Score:     p.Score,
	}
}

func playersInfo(players []*Player) []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(players))
	for i, p := range players {
		infos[i] = playerInfo(p)
	}
	return infos
}
