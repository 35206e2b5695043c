//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// 提示音名称，对应 assets/sounds/ 下的文件名（不含扩展名）
const (
	CueRoundStart = "round_start"
	CueClaimOK    = "claim_ok"
	CueClaimLost  = "claim_lost"
	CueEvaluated  = "evaluated"
	CueGameOver   = "game_over"
)

const soundDir = "assets/sounds"

// Manager 客户端提示音管理
type Manager struct {
	buffers map[string]*beep.Buffer
	enabled bool
}

func NewManager() *Manager {
	return &Manager{buffers: make(map[string]*beep.Buffer)}
}

// Init 初始化扬声器并加载提示音，音频设备不可用时保持静音
func (m *Manager) Init() error {
	sampleRate := beep.SampleRate(44100)
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("初始化扬声器失败: %w", err)
	}
	m.enabled = true

	files, err := os.ReadDir(soundDir)
	if err != nil {
		// 没有音频目录就静音运行
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取音频目录失败: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		// 单个文件加载失败不影响其余提示音
		_ = m.load(file.Name(), sampleRate)
	}

	return nil
}

// load 加载单个音频文件
func (m *Manager) load(name string, sampleRate beep.SampleRate) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".mp3" && ext != ".wav" {
		return nil
	}

	f, err := os.Open(filepath.Clean(filepath.Join(soundDir, name)))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: 2,
		Precision:   4,
	})
	buffer.Append(resampled)

	m.buffers[strings.TrimSuffix(name, filepath.Ext(name))] = buffer
	return nil
}

// Play 播放提示音，未加载时静默跳过
func (m *Manager) Play(name string) {
	if !m.enabled {
		return
	}
	buffer, ok := m.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// Close 关闭提示音
func (m *Manager) Close() {
	m.enabled = false
}
