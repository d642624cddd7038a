package quota

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Manager tracks a daily request budget for the market-data API with
// concurrency safety. A limit of 0 means unlimited.
type Manager struct {
	mu       sync.Mutex
	state    *State
	limit    int
	filePath string
	log      zerolog.Logger
	now      func() time.Time
}

// NewManager creates a Manager, loading or initializing state from disk.
func NewManager(filePath string, limit int, log zerolog.Logger) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		state:    state,
		limit:    limit,
		filePath: filePath,
		log:      log,
		now:      time.Now,
	}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Allow consumes n requests from today's budget. It returns false without
// consuming anything when the budget would be exceeded. The counter resets
// when the stored day is no longer today.
func (m *Manager) Allow(n int) bool {
	if m.limit <= 0 {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	today := m.now().Format("2006-01-02")
	if m.state.Day != today {
		m.state.Day = today
		m.state.Used = 0
	}
	if m.state.Used+n > m.limit {
		return false
	}
	m.state.Used += n

	if err := m.save(); err != nil {
		m.log.Error().Err(err).Msg("failed to save quota state")
	}
	return true
}

// Remaining returns how many requests are left today. Returns -1 when
// unlimited.
func (m *Manager) Remaining() int {
	if m.limit <= 0 {
		return -1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Day != m.now().Format("2006-01-02") {
		return m.limit
	}
	left := m.limit - m.state.Used
	if left < 0 {
		left = 0
	}
	return left
}

// Limit returns the configured daily limit.
func (m *Manager) Limit() int { return m.limit }

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}
