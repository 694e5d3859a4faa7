package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Probe checks one dependency and returns nil when it is reachable.
type Probe func(ctx context.Context) error

// BufferSizer reports the number of writes waiting for replay.
type BufferSizer interface {
	Size() (int, error)
}

type Monitor struct {
	pg     Probe
	redis  Probe
	buffer BufferSizer

	status      Status
	mu          sync.RWMutex
	interval    time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
	logger      *zap.Logger
	onReconnect func()
}

func New(pg, redis Probe, buf BufferSizer, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// OnReconnect registers fn to run when Postgres comes back after an outage.
func (m *Monitor) OnReconnect(fn func()) {
	m.mu.Lock()
	m.onReconnect = fn
	m.mu.Unlock()
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	bufferOK, bufferSize := m.checkBuffer()
	status := Status{
		PostgreSQL: m.check(m.pg, 3*time.Second),
		Redis:      m.check(m.redis, 2*time.Second),
		Buffer:     bufferOK,
		BufferSize: bufferSize,
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	reconnect := m.onReconnect
	m.mu.Unlock()

	if previous.LastCheck.IsZero() {
		return
	}
	if previous.Online() && !status.Online() {
		m.logger.Warn("postgres unreachable, buffering writes")
	}
	if !previous.Online() && status.Online() {
		m.logger.Info("postgres reachable again", zap.Int("buffered", status.BufferSize))
		if reconnect != nil {
			reconnect()
		}
	}
}

func (m *Monitor) check(probe Probe, timeout time.Duration) bool {
	if probe == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return probe(ctx) == nil
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.buffer == nil {
		return false, 0
	}
	size, err := m.buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
