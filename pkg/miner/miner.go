package miner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screa/solana-vanity/internal/crypto"
	"github.com/screa/solana-vanity/internal/logger"
	"github.com/screa/solana-vanity/pkg/matcher"
	"github.com/screa/solana-vanity/pkg/types"
	"github.com/screa/solana-vanity/pkg/worker"
)

// ErrInvalidWorkerCount is returned when a miner is built with no workers
var ErrInvalidWorkerCount = errors.New("worker count must be at least 1")

// Option configures a Miner
type Option func(*Miner)

// WithGenerator replaces the default crypto/rand keypair generator.
// The generator is shared by all workers and must be safe for concurrent use.
func WithGenerator(g worker.Generator) Option {
	return func(m *Miner) {
		m.gen = g
	}
}

// WithLogInterval sets how often progress is logged in verbose mode.
// Zero disables progress logging.
func WithLogInterval(d time.Duration) Option {
	return func(m *Miner) {
		m.logInterval = d
	}
}

// Miner coordinates a pool of workers racing to find one matching keypair.
// A Miner runs a single search.
type Miner struct {
	config      types.MatchConfig
	logger      *logger.Logger
	gen         worker.Generator
	logInterval time.Duration
	workers     []*worker.Worker

	found atomic.Bool  // shared latch, set by the winner or by Stop
	state atomic.Int32 // types.State
	wg    sync.WaitGroup
	done  chan struct{}
}

type win struct {
	workerID int
	keypair  *crypto.Keypair
}

// NewMiner creates a new miner instance with the given number of workers
func NewMiner(cfg types.MatchConfig, workers int, log *logger.Logger, opts ...Option) (*Miner, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkerCount
	}
	if log == nil {
		log = logger.Discard()
	}

	m := &Miner{
		config: cfg,
		logger: log,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.gen == nil {
		m.gen = crypto.NewGenerator(nil)
	}

	m.workers = make([]*worker.Worker, workers)
	for i := range m.workers {
		m.workers[i] = worker.NewWorker(i, &m.config, m.gen, &m.found)
	}
	return m, nil
}

// Search runs the workers until one finds a match or the search is stopped,
// either by Stop or by ctx ending. It returns as soon as the first match
// arrives; the remaining workers wind down on their own and Done is closed
// once they have all exited.
func (m *Miner) Search(ctx context.Context) *types.Result {
	start := time.Now()

	if !m.state.CompareAndSwap(int32(types.Idle), int32(types.Running)) {
		return &types.Result{WorkerID: -1}
	}
	if ctx.Err() != nil || m.found.Load() {
		m.found.Store(true)
		m.state.Store(int32(types.Cancelled))
		close(m.done)
		return &types.Result{WorkerID: -1, Duration: time.Since(start)}
	}

	stop := context.AfterFunc(ctx, m.Stop)
	defer stop()

	// buffered so a losing worker that also matched never blocks
	results := make(chan win, len(m.workers))
	for _, w := range m.workers {
		m.wg.Add(1)
		go m.run(w, results)
	}
	go func() {
		m.wg.Wait()
		close(m.done)
	}()

	if m.logInterval > 0 && m.logger.Verbose() {
		m.logger.Printf("Mining started with %d workers, logging every %v...", len(m.workers), m.logInterval)
		go m.periodicLogger(start)
	}

	var w win
	select {
	case w = <-results:
	case <-m.done:
		// every worker has exited, so any result is already buffered
		select {
		case w = <-results:
		default:
		}
	}

	result := &types.Result{
		Keypair:  w.keypair,
		WorkerID: -1,
		Attempts: m.Attempts(),
		Duration: time.Since(start),
	}
	if w.keypair != nil {
		result.WorkerID = w.workerID
		m.state.Store(int32(types.Found))
	} else {
		m.state.Store(int32(types.Cancelled))
	}
	return result
}

func (m *Miner) run(w *worker.Worker, results chan<- win) {
	defer m.wg.Done()
	if kp := w.Run(); kp != nil {
		results <- win{workerID: w.ID(), keypair: kp}
	}
}

// Stop sets the shared latch; every worker exits after its current iteration
func (m *Miner) Stop() {
	m.found.Store(true)
}

// Done is closed once every worker has exited
func (m *Miner) Done() <-chan struct{} {
	return m.done
}

// State returns where the search is in its lifecycle
func (m *Miner) State() types.State {
	return types.State(m.state.Load())
}

// Workers returns the configured worker count
func (m *Miner) Workers() int {
	return len(m.workers)
}

// Attempts returns the total keypairs generated so far across all workers
func (m *Miner) Attempts() int64 {
	var total int64
	for _, w := range m.workers {
		total += w.Attempts()
	}
	return total
}

// Difficulty returns the expected number of attempts for this search
func (m *Miner) Difficulty() float64 {
	return matcher.Difficulty(&m.config)
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(start time.Time) {
	ticker := time.NewTicker(m.logInterval)
	defer ticker.Stop()

	expected := m.Difficulty()
	for {
		select {
		case <-ticker.C:
			if m.found.Load() {
				return
			}
			attempts := m.Attempts()
			elapsed := time.Since(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			m.logger.Printf("Progress: %d attempts, %.2f keys/sec, %.1f%% of %.0f expected",
				attempts, rate, 100*float64(attempts)/expected, expected)
		case <-m.done:
			return
		}
	}
}
