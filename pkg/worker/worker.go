package worker

import (
	"sync/atomic"

	"github.com/screa/solana-vanity/internal/crypto"
	"github.com/screa/solana-vanity/pkg/matcher"
	"github.com/screa/solana-vanity/pkg/types"
)

// Generator produces one fresh keypair per call
type Generator interface {
	Generate() *crypto.Keypair
}

// Worker runs the generate and match loop for a single goroutine
type Worker struct {
	id     int
	config *types.MatchConfig
	gen    Generator
	found  *atomic.Bool

	// written only by this worker, read by progress reporting
	attempts atomic.Int64
}

// NewWorker creates a new worker instance. found is the latch shared by
// every worker of a search.
func NewWorker(id int, config *types.MatchConfig, gen Generator, found *atomic.Bool) *Worker {
	return &Worker{
		id:     id,
		config: config,
		gen:    gen,
		found:  found,
	}
}

// ID returns the worker index
func (w *Worker) ID() int {
	return w.id
}

// Attempts returns the number of keypairs this worker has generated
func (w *Worker) Attempts() int64 {
	return w.attempts.Load()
}

// Run loops until a keypair matches or the latch is set by someone else.
// It returns the matching keypair, or nil when stopped.
func (w *Worker) Run() *crypto.Keypair {
	for !w.found.Load() {
		kp := w.gen.Generate()
		w.attempts.Add(1)

		if matcher.Matches(kp.Address, w.config) {
			w.found.Store(true)
			return kp
		}
	}
	return nil
}
