// Package run coordinates crawl execution and enforces single-flight runs.
package run

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/booklore/bookstore-crawler/internal/catalog"
	"github.com/booklore/bookstore-crawler/internal/metrics"
)

// Walker traverses the catalog and returns whatever it accumulated, even
// when the walk aborted partway.
type Walker interface {
	Walk(ctx context.Context, startURL string) ([]catalog.Book, error)
}

// Persister writes one collected batch to the persistence targets.
type Persister interface {
	Persist(ctx context.Context, books []catalog.Book) error
}

// systemClock is the default catalog.Clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Coordinator owns the "one active run" token. Trigger acquires it
// atomically; the background run releases it unconditionally on reaching a
// terminal state. The token is the only mutable state shared between the
// trigger caller and the run goroutine besides the guarded snapshot.
type Coordinator struct {
	walker    Walker
	persister Persister
	startURL  string
	clock     catalog.Clock
	logger    *zap.Logger

	active atomic.Bool

	mu   sync.Mutex
	last catalog.CrawlRun

	// wg lets tests wait for the background run to finish.
	wg sync.WaitGroup
}

// New builds a Coordinator.
func New(w Walker, p Persister, startURL string, clock catalog.Clock, logger *zap.Logger) *Coordinator {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		walker:    w,
		persister: p,
		startURL:  startURL,
		clock:     clock,
		logger:    logger,
		last:      catalog.CrawlRun{State: catalog.RunStateIdle},
	}
}

// Trigger starts a crawl run on a background goroutine and returns its ID
// immediately. When a run is already active it returns catalog.ErrRunActive
// and starts nothing. The response never reflects the eventual outcome of
// the run; callers observe that through Status.
func (c *Coordinator) Trigger() (string, error) {
	if !c.active.CompareAndSwap(false, true) {
		return "", catalog.ErrRunActive
	}

	runID := uuid.NewString()
	started := c.clock.Now()
	c.setRun(catalog.CrawlRun{
		ID:        runID,
		State:     catalog.RunStateRunning,
		StartedAt: &started,
	})

	c.wg.Add(1)
	go c.execute(runID)

	return runID, nil
}

// Status returns a copy of the current or most recent run.
func (c *Coordinator) Status() catalog.CrawlRun {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Wait blocks until no background run is in flight.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// execute performs one walk-then-persist sequence. The run is detached
// from the trigger request: no cancel signal and no per-run timeout.
func (c *Coordinator) execute(runID string) {
	defer c.wg.Done()
	defer c.active.Store(false)

	logger := c.logger.With(zap.String("run_id", runID))
	ctx := context.Background()

	books, walkErr := c.walker.Walk(ctx, c.startURL)
	if walkErr != nil {
		logger.Error("walk aborted", zap.Error(walkErr), zap.Int("partial_records", len(books)))
	}

	// A partial batch from an aborted walk is still valid output; only an
	// empty batch skips persistence.
	persistErr := c.persister.Persist(ctx, books)

	finished := c.clock.Now()
	run := catalog.CrawlRun{
		ID:             runID,
		State:          catalog.RunStateCompleted,
		FinishedAt:     &finished,
		ItemsCollected: len(books),
	}
	if started := c.Status().StartedAt; started != nil {
		run.StartedAt = started
	}
	switch {
	case walkErr != nil:
		run.State = catalog.RunStateAborted
		run.FailureReason = walkErr.Error()
	case persistErr != nil:
		run.State = catalog.RunStateAborted
		run.FailureReason = persistErr.Error()
	}
	c.setRun(run)
	metrics.ObserveRun(string(run.State))

	logger.Info("run finished",
		zap.String("state", string(run.State)),
		zap.Int("items_collected", run.ItemsCollected))
}

func (c *Coordinator) setRun(run catalog.CrawlRun) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = run
}
