/*
scheduler.go - Day rollover scheduler

PURPOSE:
  An open-ended seed marks every day "through today". When the server runs
  across midnight, today moves on; the scheduler periodically extends the
  seed so the new days get their rest/work/payment status, leaving any day
  already marked untouched.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each check calls Handler.ExtendSeed under the handler's lock
  - Days that were already marked by hand are skipped

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRolloverScheduler(handler, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - session/session.go: ExtendSeed
  - ledger/seed.go: Extend
*/
package api

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RolloverScheduler extends open-ended seeds as days pass.
type RolloverScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	log    *zap.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRolloverScheduler creates a new scheduler.
func NewRolloverScheduler(handler *Handler, log *zap.Logger) *RolloverScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RolloverScheduler{
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		log:           log.Named("scheduler"),
	}
}

// Start begins the scheduler.
func (rs *RolloverScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		rs.log.Info("disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan struct{})
	rs.wg.Add(1)

	go rs.run()

	rs.log.Info("started", zap.Duration("interval", rs.CheckInterval))
}

// Stop stops the scheduler and waits for a running check to finish.
func (rs *RolloverScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.log.Info("stopped")
	}
}

func (rs *RolloverScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.Check(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.Check(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// Check runs one rollover and returns the number of days marked.
func (rs *RolloverScheduler) Check(ctx context.Context) int {
	n, err := rs.Handler.ExtendSeed(ctx)
	if err != nil {
		rs.log.Error("rollover failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		rs.log.Info("rollover completed", zap.Int("days", n))
	}
	return n
}
