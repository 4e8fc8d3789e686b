package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// FailureFunc receives durable write failures from a Mirror.
type FailureFunc func(key string, err error)

// MirrorConfig configures a Mirror.
type MirrorConfig struct {
	// WriteTimeout bounds each durable write. Zero means 5s.
	WriteTimeout time.Duration
	// OnFailure is called from the worker goroutine after a write fails.
	OnFailure FailureFunc
}

type pendingWrite struct {
	value  []byte
	delete bool
}

// Mirror is a write-through cache in front of a Repository. Callers mutate
// their in-memory state first, then Enqueue a snapshot. Enqueue never blocks:
// pending snapshots are coalesced per key and a single worker writes the
// latest one. Memory is never rolled back when a write fails.
type Mirror struct {
	repo      Repository
	logger    *slog.Logger
	timeout   time.Duration
	onFailure FailureFunc

	mu      sync.Mutex
	pending map[string]pendingWrite
	order   []string
	busy    bool
	idle    chan struct{}
	closed  bool

	wake     chan struct{}
	stop     chan struct{}
	done     chan struct{}
	failures atomic.Int64
	writes   atomic.Int64
}

// NewMirror starts the mirror worker for repo.
func NewMirror(repo Repository, cfg MirrorConfig, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	idle := make(chan struct{})
	close(idle)

	m := &Mirror{
		repo:      repo,
		logger:    logger.With("component", "store_mirror"),
		timeout:   cfg.WriteTimeout,
		onFailure: cfg.OnFailure,
		pending:   make(map[string]pendingWrite),
		idle:      idle,
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go m.run()
	return m
}

// Enqueue schedules value to be written under key. A later Enqueue for the
// same key replaces an unwritten earlier one.
func (m *Mirror) Enqueue(key string, value []byte) {
	m.enqueue(key, pendingWrite{value: append([]byte(nil), value...)})
}

// EnqueueDelete schedules key for removal.
func (m *Mirror) EnqueueDelete(key string) {
	m.enqueue(key, pendingWrite{delete: true})
}

func (m *Mirror) enqueue(key string, w pendingWrite) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.logger.Warn("mirror closed, dropping write", "key", key)
		return
	}
	if !m.busy {
		m.busy = true
		m.idle = make(chan struct{})
	}
	if _, queued := m.pending[key]; !queued {
		m.order = append(m.order, key)
	}
	m.pending[key] = w
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every write enqueued before the call has been attempted.
func (m *Mirror) Flush(ctx context.Context) error {
	m.mu.Lock()
	idle := m.idle
	m.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes pending writes and stops the worker. Later Enqueue calls are
// dropped with a warning.
func (m *Mirror) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	err := m.Flush(ctx)
	close(m.stop)

	select {
	case <-m.done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Failures returns how many durable writes have failed.
func (m *Mirror) Failures() int64 {
	return m.failures.Load()
}

// Writes returns how many durable writes have been attempted.
func (m *Mirror) Writes() int64 {
	return m.writes.Load()
}

func (m *Mirror) run() {
	defer close(m.done)
	for {
		select {
		case <-m.stop:
			m.drain()
			return
		case <-m.wake:
			m.drain()
		}
	}
}

func (m *Mirror) drain() {
	for {
		m.mu.Lock()
		if len(m.order) == 0 {
			if m.busy {
				m.busy = false
				close(m.idle)
			}
			m.mu.Unlock()
			return
		}
		key := m.order[0]
		m.order = m.order[1:]
		w := m.pending[key]
		delete(m.pending, key)
		m.mu.Unlock()

		m.write(key, w)
	}
}

func (m *Mirror) write(key string, w pendingWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	start := time.Now()
	var err error
	if w.delete {
		err = m.repo.Delete(ctx, key)
	} else {
		err = m.repo.Set(ctx, key, w.value)
	}
	m.writes.Add(1)

	if err != nil {
		m.failures.Add(1)
		m.logger.Warn("durable write failed", "key", key, "delete", w.delete, "error", err)
		if m.onFailure != nil {
			m.onFailure(key, err)
		}
		return
	}
	if d := time.Since(start); d > 100*time.Millisecond {
		m.logger.Warn("slow durable write", "key", key, "duration_ms", d.Milliseconds())
	}
}
