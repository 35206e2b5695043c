package ui

import (
	"fmt"
	"sort"
	"strings"
)

// View 实现 tea.Model
func (m *Model) View() string {
	var b strings.Builder

	switch m.phase {
	case phaseConnecting:
		b.WriteString(titleStyle.Render("🎵 流派对战"))
		b.WriteString("\n\n正在连接服务器...")

	case phaseLogin:
		b.WriteString(titleStyle.Render("🎵 流派对战"))
		b.WriteString("\n\n" + promptStyle.Render("你的昵称:"))
		b.WriteString("\n" + m.input.View())

	case phaseMenu:
		b.WriteString(titleStyle.Render("🎵 流派对战"))
		b.WriteString(fmt.Sprintf("\n\n你好，%s！", m.name))
		b.WriteString("\n\n" + promptStyle.Render("房间号:"))
		b.WriteString("\n" + m.input.View())
		b.WriteString("\n\n" + dimStyle.Render("回车加入房间，留空回车创建新房间"))

	case phaseWaiting:
		b.WriteString(m.viewWaiting())

	case phaseSelecting:
		b.WriteString(m.viewSelecting())

	case phaseEvaluated:
		b.WriteString(m.viewEvaluated())

	case phaseGameOver:
		b.WriteString(m.viewGameOver())
	}

	if m.errMsg != "" {
		b.WriteString("\n\n" + errorStyle.Render("⚠ "+m.errMsg))
	}

	return docStyle.Render(b.String())
}

func (m *Model) viewWaiting() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("房间 %s", m.room.RoomCode)))
	b.WriteString(fmt.Sprintf("  %s\n\n", dimStyle.Render(fmt.Sprintf("共 %d 轮", m.room.RoundCount))))

	b.WriteString("玩家:\n")
	for _, p := range m.room.Players {
		badge := "  "
		if p.IsCreator {
			badge = creatorBadge + " "
		}
		b.WriteString(fmt.Sprintf("  %s%s\n", badge, p.Name))
	}

	b.WriteString("\n")
	if m.isCreator() {
		b.WriteString(dimStyle.Render("s 开始游戏 · q 离开"))
	} else {
		b.WriteString(dimStyle.Render("等待房主开始... · q 离开"))
	}
	return b.String()
}

func (m *Model) viewSelecting() string {
	var b strings.Builder
	if m.round == nil {
		return "等待题目..."
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("第 %d/%d 轮", m.round.Number+1, m.room.RoundCount)))
	b.WriteString("\n\n")

	track := fmt.Sprintf("▶ %s — %s", m.round.Title, m.round.Artist)
	if m.round.Album != "" {
		track += dimStyle.Render("（" + m.round.Album + "）")
	}
	b.WriteString(boxStyle.Render(track))
	b.WriteString(fmt.Sprintf("\n\n听歌猜流派，每人抢 %d 个：\n\n", m.round.Quota))

	for i, opt := range m.round.Options {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := opt.Label
		if opt.Description != "" {
			line += dimStyle.Render(" · " + opt.Description)
		}

		if owner := m.labelOwner(opt.Label); owner != "" {
			if owner == m.userID {
				line = mineStyle.Render(opt.Label + " ✔ 你的")
			} else {
				line = takenStyle.Render(opt.Label) + dimStyle.Render(" @"+m.playerName(owner))
			}
		}
		b.WriteString(cursor + line + "\n")
	}

	quota := m.round.Quota
	b.WriteString(fmt.Sprintf("\n已抢 %d/%d", len(m.mySelections()), quota))
	help := "↑/↓ 移动 · 回车抢选 · q 离开"
	if m.isCreator() {
		help += " · e 提前结算"
	}
	b.WriteString("\n" + dimStyle.Render(help))
	return b.String()
}

func (m *Model) viewEvaluated() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🧮 本轮结算"))
	b.WriteString("\n\n")

	if m.results != nil {
		b.WriteString(fmt.Sprintf("正确答案: %s\n", scoreStyle.Render(strings.Join(m.results.CorrectAnswers, "、"))))
		if m.results.Explanation != "" {
			b.WriteString(dimStyle.Render(m.results.Explanation) + "\n")
		}
		b.WriteString("\n")

		for _, r := range m.results.Results {
			b.WriteString(fmt.Sprintf("%s  本轮 %s  总分 %s\n",
				r.PlayerName,
				scoreStyle.Render(fmt.Sprintf("%d", r.RoundScore)),
				scoreStyle.Render(fmt.Sprintf("%d", r.TotalScore))))
			for _, d := range r.Details {
				mark := "✘"
				if d.Score > 0 {
					mark = "✔"
				}
				detail := fmt.Sprintf("    %s %s", mark, d.Claimed)
				if d.MatchedWith != "" && d.MatchedWith != d.Claimed {
					detail += dimStyle.Render(" → " + d.MatchedWith)
				}
				detail += fmt.Sprintf(" (%d)", d.Score)
				b.WriteString(detail + "\n")
			}
		}
	}

	b.WriteString("\n准备状态:\n")
	for _, p := range m.room.Players {
		badge := notReadyBadge
		if m.ready[p.ID] {
			badge = readyBadge
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", badge, p.Name))
	}

	help := "r 准备/取消"
	if m.isCreator() {
		help += " · n 直接进入下一轮"
	}
	b.WriteString("\n" + dimStyle.Render(help+" · q 离开"))
	return b.String()
}

func (m *Model) viewGameOver() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("🏁 游戏结束"))
	b.WriteString("\n\n")

	standings := m.standings
	if len(standings) == 0 {
		// 断线重连后没有收到 game_over 推送，用名单现算
		standings = append(standings, m.room.Players...)
		sort.SliceStable(standings, func(i, j int) bool {
			return standings[i].Score > standings[j].Score
		})
	}

	medals := []string{"🥇", "🥈", "🥉"}
	for i, p := range standings {
		medal := "  "
		if i < len(medals) {
			medal = medals[i]
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", medal, p.Name, scoreStyle.Render(fmt.Sprintf("%d 分", p.Score))))
	}

	b.WriteString("\n" + dimStyle.Render("q 退出"))
	return b.String()
}
