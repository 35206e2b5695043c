//go:build ci

package sound

// 提示音名称（与正式实现保持一致）
const (
	CueRoundStart = "round_start"
	CueClaimOK    = "claim_ok"
	CueClaimLost  = "claim_lost"
	CueEvaluated  = "evaluated"
	CueGameOver   = "game_over"
)

// Manager CI 环境下的静音实现
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Init() error {
	return nil
}

func (m *Manager) Play(name string) {}

func (m *Manager) Close() {}
