package miner

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/solana-vanity/internal/crypto"
	"github.com/screa/solana-vanity/internal/logger"
	"github.com/screa/solana-vanity/pkg/matcher"
	"github.com/screa/solana-vanity/pkg/types"
)

// firstThenRandom returns first on the first call and random keys after.
type firstThenRandom struct {
	first *crypto.Keypair
	calls atomic.Int64
	rand  *crypto.Generator
}

func (g *firstThenRandom) Generate() *crypto.Keypair {
	if g.calls.Add(1) == 1 && g.first != nil {
		return g.first
	}
	return g.rand.Generate()
}

func fixedKeypair(t *testing.T) *crypto.Keypair {
	t.Helper()
	seed := bytes.Repeat([]byte{0x42}, crypto.SeedLen)
	kp, err := crypto.KeypairFromSeed(seed)
	require.NoError(t, err)
	return kp
}

// unreachable is a case-sensitive full-address pattern no random key will hit
func unreachable(t *testing.T, mode types.MatchMode) types.MatchConfig {
	return types.NewMatchConfig(fixedKeypair(t).Address, mode, true, false)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitDone(t *testing.T, m *Miner) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not exit")
	}
}

func TestNewMiner(t *testing.T) {
	cfg := types.NewMatchConfig("abc", types.Prefix, false, true)
	m, err := NewMiner(cfg, 3, logger.Discard())
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, cfg, m.config)
	assert.Equal(t, 3, m.Workers())
	assert.Equal(t, types.Idle, m.State())
	assert.Zero(t, m.Attempts())
	assert.InDelta(t, matcher.Difficulty(&cfg), m.Difficulty(), 1e-9)
}

func TestNewMinerRejectsNoWorkers(t *testing.T) {
	cfg := types.NewMatchConfig("abc", types.Prefix, false, true)
	for _, n := range []int{0, -1} {
		_, err := NewMiner(cfg, n, logger.Discard())
		require.ErrorIs(t, err, ErrInvalidWorkerCount)
	}
}

func TestSearchFindsStubbedKeypair(t *testing.T) {
	kp := fixedKeypair(t)
	cfg := types.NewMatchConfig(kp.Address[:4], types.Prefix, true, false)
	gen := &firstThenRandom{first: kp, rand: crypto.NewGenerator(nil)}

	m, err := NewMiner(cfg, 1, logger.Discard(), WithGenerator(gen))
	require.NoError(t, err)

	result := m.Search(context.Background())
	require.True(t, result.Found())
	assert.True(t, kp.Equal(result.Keypair))
	assert.Equal(t, 0, result.WorkerID)
	assert.EqualValues(t, 1, result.Attempts)
	assert.Equal(t, types.Found, m.State())

	waitDone(t, m)
	assert.EqualValues(t, 1, gen.calls.Load())
}

func TestSearchPresetStopNeverGenerates(t *testing.T) {
	gen := &firstThenRandom{rand: crypto.NewGenerator(nil)}
	m, err := NewMiner(types.NewMatchConfig("a", types.Either, false, true), 4, logger.Discard(), WithGenerator(gen))
	require.NoError(t, err)

	m.Stop()
	result := m.Search(context.Background())

	assert.False(t, result.Found())
	assert.Zero(t, gen.calls.Load())
	assert.Equal(t, types.Cancelled, m.State())
	waitDone(t, m)
}

func TestSearchCancelledContextNeverGenerates(t *testing.T) {
	gen := &firstThenRandom{rand: crypto.NewGenerator(nil)}
	m, err := NewMiner(types.NewMatchConfig("a", types.Prefix, false, false), 2, logger.Discard(), WithGenerator(gen))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, m.Search(ctx).Found())
	assert.Zero(t, gen.calls.Load())
}

func TestSearchTimeoutReturnsNotFound(t *testing.T) {
	m, err := NewMiner(unreachable(t, types.Either), 4, logger.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result := m.Search(ctx)
	assert.False(t, result.Found())
	assert.Equal(t, -1, result.WorkerID)
	assert.Positive(t, result.Attempts)
	assert.GreaterOrEqual(t, result.Duration, 50*time.Millisecond)
	assert.Equal(t, types.Cancelled, m.State())
	waitDone(t, m)
}

func TestSearchExternalStop(t *testing.T) {
	m, err := NewMiner(unreachable(t, types.Suffix), 3, logger.Discard())
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		m.Stop()
	}()

	result := m.Search(context.Background())
	assert.False(t, result.Found())
	waitDone(t, m)
}

func TestSearchManyWorkersSingleWinner(t *testing.T) {
	// easy pattern so several workers are likely to match at once
	cfg := types.NewMatchConfig("a", types.Either, false, true)
	m, err := NewMiner(cfg, 8, logger.Discard())
	require.NoError(t, err)

	result := m.Search(context.Background())
	require.True(t, result.Found())
	assert.True(t, matcher.Matches(result.Keypair.Address, &cfg))
	assert.GreaterOrEqual(t, result.WorkerID, 0)
	assert.Less(t, result.WorkerID, 8)
	waitDone(t, m)
}

func TestSearchIsSingleUse(t *testing.T) {
	cfg := types.NewMatchConfig("a", types.Either, false, true)
	m, err := NewMiner(cfg, 2, logger.Discard())
	require.NoError(t, err)

	require.True(t, m.Search(context.Background()).Found())
	assert.False(t, m.Search(context.Background()).Found())
	assert.Equal(t, types.Found, m.State())
}

func TestSearchVerboseProgress(t *testing.T) {
	var buf syncBuffer
	log := logger.NewWriter(&buf)
	log.SetVerbose(true)

	m, err := NewMiner(unreachable(t, types.Prefix), 2, log, WithLogInterval(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	m.Search(ctx)
	waitDone(t, m)

	out := buf.String()
	assert.Contains(t, out, "Mining started with 2 workers")
	assert.True(t, strings.Contains(out, "Progress:"), "expected a progress line, got %q", out)
}
