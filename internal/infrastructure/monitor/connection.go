package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/taskwise/repository"
)

// Sizer is implemented by backends that can count their entries cheaply.
type Sizer interface {
	Size() (int, error)
}

// Monitor probes the storage backend on a cron schedule and keeps the last
// result for the health endpoint.
type Monitor struct {
	backend string
	pinger  repository.Pinger
	timeout time.Duration

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(backend string, pinger repository.Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		backend:  backend,
		pinger:   pinger,
		timeout:  3 * time.Second,
		interval: interval,
		status:   Status{Backend: backend},
		logger:   logger,
	}
}

// Start probes once and then every interval until Stop.
func (m *Monitor) Start() error {
	m.Refresh()
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", m.interval), m.Refresh); err != nil {
		return fmt.Errorf("schedule storage probe: %w", err)
	}
	m.cron = c
	c.Start()
	return nil
}

// Stop waits for a running probe to finish.
func (m *Monitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Online
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh probes the backend now.
func (m *Monitor) Refresh() {
	status := Status{Backend: m.backend, LastCheck: time.Now()}
	if err := m.ping(); err != nil {
		status.Error = err.Error()
	} else {
		status.Online = true
	}
	if sizer, ok := m.pinger.(Sizer); ok && status.Online {
		if size, err := sizer.Size(); err == nil {
			status.Entries = size
		} else {
			m.logger.Warn("storage size check failed", zap.Error(err))
		}
	}

	m.mu.Lock()
	wasOnline := m.status.Online || m.status.LastCheck.IsZero()
	m.status = status
	m.mu.Unlock()

	if wasOnline && !status.Online {
		m.logger.Warn("storage backend offline", zap.String("backend", m.backend), zap.String("error", status.Error))
	} else if !wasOnline && status.Online {
		m.logger.Info("storage backend back online", zap.String("backend", m.backend))
	}
}

func (m *Monitor) ping() error {
	if m.pinger == nil {
		return fmt.Errorf("no storage backend configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.pinger.Ping(ctx)
}
