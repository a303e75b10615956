package daemon

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/wasp/internal/domain"
)

// Scheduler is a single-consumer work queue. Producers on any goroutine
// call Schedule; the consumer runs each function in order and stops at
// the first error.
type Scheduler struct {
	queue  chan func() error
	logger *zap.Logger

	mu  sync.Mutex
	err error
}

// NewScheduler creates a queue holding up to size pending functions.
func NewScheduler(size int, logger *zap.Logger) *Scheduler {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{queue: make(chan func() error, size), logger: logger}
}

// Schedule queues fn. It returns false when the queue is full or the
// scheduler has already failed.
func (s *Scheduler) Schedule(fn func() error) bool {
	if s.Err() != nil {
		return false
	}
	select {
	case s.queue <- fn:
		return true
	default:
		s.logger.Warn("work queue full")
		return false
	}
}

// Pending returns the number of queued functions.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Err returns the error that stopped the scheduler, if any.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Run consumes the queue until ctx is cancelled or a function fails.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.queue:
			if err := s.run(fn); err != nil {
				return err
			}
		}
	}
}

// C exposes the queue to a consumer that multiplexes it with other work.
func (s *Scheduler) C() <-chan func() error { return s.queue }

func (s *Scheduler) run(fn func() error) error {
	err := fn()
	if err != nil {
		s.mu.Lock()
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
		s.logger.Error("scheduled work failed", zap.Error(err))
	}
	return err
}

// Ensure Scheduler implements domain.WorkScheduler.
var _ domain.WorkScheduler = (*Scheduler)(nil)
