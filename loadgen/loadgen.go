// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package loadgen submits signed transactions from a pool of workers at a
// controlled rate. Each worker owns one account and its nonce sequence, so
// workers never race on a nonce. The rate limiter is shared by all workers.
package loadgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/blinklabs-io/gohaze/client"
	"github.com/blinklabs-io/gohaze/ledger"
	"github.com/blinklabs-io/gohaze/ledger/common"
	"golang.org/x/time/rate"
)

var (
	ErrNoSigners       = errors.New("loadgen: no signers configured")
	ErrNilBuildFunc    = errors.New("loadgen: nil build function")
	ErrNilSubmitter    = errors.New("loadgen: nil submitter")
	ErrNonceExhausted  = errors.New("loadgen: nonce space exhausted")
	ErrTooManyNonces   = errors.New("loadgen: more start nonces than signers")
	ErrNegativeRate    = errors.New("loadgen: negative rate")
	ErrAlreadyStarted  = errors.New("loadgen: already started")
)

// Submitter delivers a signed transaction to the ledger. *client.Client
// satisfies it.
type Submitter interface {
	SubmitTransaction(ctx context.Context, tx ledger.Transaction) (*client.TransactionStatus, error)
}

// BuildFunc returns a signed transaction for the given worker and nonce. The
// Builder signs as the worker's account.
type BuildFunc func(b *ledger.Builder, worker int, nonce uint64) (ledger.Transaction, error)

// TransferBuildFunc returns a BuildFunc that sends amount to the same
// recipient on every call
func TransferBuildFunc(to common.Address, amount uint64, fee uint64) BuildFunc {
	return func(b *ledger.Builder, _ int, nonce uint64) (ledger.Transaction, error) {
		return b.Transfer(to, amount, fee, nonce)
	}
}

// LoadGenerator runs one submission worker per configured signer
type LoadGenerator struct {
	config  LoadGenConfig
	logger  *slog.Logger
	limiter *rate.Limiter
	metrics *LoadGenMetrics
	nonces  []atomic.Uint64
	claimed atomic.Uint64
	wg      sync.WaitGroup
	started atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	errs   []error
}

// New creates a LoadGenerator. Starting nonces are resolved here, so a
// failing nonce store is reported before any worker runs.
func New(opts ...LoadGenOptionFunc) (*LoadGenerator, error) {
	config := DefaultLoadGenConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if len(config.Signers) == 0 {
		return nil, ErrNoSigners
	}
	if config.Build == nil {
		return nil, ErrNilBuildFunc
	}
	if config.Submitter == nil {
		return nil, ErrNilSubmitter
	}
	if len(config.StartNonces) > len(config.Signers) {
		return nil, ErrTooManyNonces
	}
	if config.Rate < 0 || math.IsNaN(config.Rate) {
		return nil, ErrNegativeRate
	}
	g := &LoadGenerator{
		config:  config,
		logger:  config.Logger,
		metrics: NewLoadGenMetrics(),
		nonces:  make([]atomic.Uint64, len(config.Signers)),
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if config.Rate > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = DefaultBurst
		}
		g.limiter = rate.NewLimiter(rate.Limit(config.Rate), burst)
	}
	for i, signer := range config.Signers {
		if signer == nil {
			return nil, fmt.Errorf("loadgen: nil signer for worker %d", i)
		}
		if i < len(config.StartNonces) {
			g.nonces[i].Store(config.StartNonces[i])
			continue
		}
		if config.NonceStore != nil {
			nonce, _, err := config.NonceStore.Get(signer.Address())
			if err != nil {
				return nil, fmt.Errorf("loadgen: starting nonce for worker %d: %w", i, err)
			}
			g.nonces[i].Store(nonce)
		}
	}
	return g, nil
}

// Workers returns the number of workers
func (g *LoadGenerator) Workers() int {
	return len(g.config.Signers)
}

// Start starts the workers. Call Wait or Stop to wait for completion.
// This method is idempotent - calling it multiple times has no effect.
func (g *LoadGenerator) Start(ctx context.Context) {
	if g.started.Swap(true) {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	g.mu.Lock()
	g.cancel = cancel
	g.mu.Unlock()
	g.metrics.Reset()
	g.logger.Info(
		"starting load generator",
		"component", "loadgen",
		"workers", len(g.config.Signers),
		"rate", g.config.Rate,
		"total", g.config.Total,
	)
	for i := range g.config.Signers {
		g.wg.Add(1)
		go g.worker(ctx, i)
	}
}

// Stop cancels the workers and waits for them to exit. A submission in
// flight is abandoned through its context.
func (g *LoadGenerator) Stop() error {
	g.mu.Lock()
	cancel := g.cancel
	g.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return g.Wait()
}

// Wait blocks until every worker has exited and returns the errors that
// stopped workers early
func (g *LoadGenerator) Wait() error {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
	return errors.Join(g.errs...)
}

// Run starts the workers, waits for the run to end and returns the final stats.
// The run ends when Total submissions have been made or ctx is done.
func (g *LoadGenerator) Run(ctx context.Context) (LoadGenStats, error) {
	if g.started.Load() {
		return g.Stats(), ErrAlreadyStarted
	}
	g.Start(ctx)
	err := g.Wait()
	stats := g.Stats()
	g.logger.Info(
		"load generator finished",
		"component", "loadgen",
		"submitted", stats.Submitted,
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"failed", stats.Failed,
	)
	return stats, err
}

// Stats returns a snapshot of the submission counters
func (g *LoadGenerator) Stats() LoadGenStats {
	return g.metrics.Stats()
}

// Nonces returns the next nonce each worker would use, by worker index
func (g *LoadGenerator) Nonces() []uint64 {
	ret := make([]uint64, len(g.nonces))
	for i := range g.nonces {
		ret[i] = g.nonces[i].Load()
	}
	return ret
}

// claim reserves one submission slot against Total
func (g *LoadGenerator) claim() bool {
	if g.config.Total == 0 {
		return true
	}
	for {
		cur := g.claimed.Load()
		if cur >= g.config.Total {
			return false
		}
		if g.claimed.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

func (g *LoadGenerator) recordError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs = append(g.errs, err)
}

func (g *LoadGenerator) worker(ctx context.Context, idx int) {
	defer g.wg.Done()

	builder := ledger.NewBuilder(g.config.Signers[idx], g.config.BuilderOptions...)
	addr := builder.Address()
	logger := g.logger.With(
		"component", "loadgen",
		"worker", idx,
		"address", addr.String(),
	)
	for {
		if ctx.Err() != nil {
			return
		}
		if !g.claim() {
			return
		}
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return
			}
		}
		nonce := g.nonces[idx].Load()
		tx, err := g.config.Build(builder, idx, nonce)
		if err != nil {
			g.metrics.RecordBuildError()
			logger.Error("failed to build transaction", "nonce", nonce, "error", err)
			g.recordError(fmt.Errorf("worker %d: build nonce %d: %w", idx, nonce, err))
			return
		}
		g.metrics.RecordSubmit()
		status, err := g.config.Submitter.SubmitTransaction(ctx, tx)
		switch {
		case err == nil:
			g.metrics.RecordAccept()
			hash := ""
			if status != nil {
				hash = status.Hash
			}
			logger.Debug("transaction accepted", "nonce", nonce, "hash", hash)
			if g.config.NonceStore != nil {
				if err := g.config.NonceStore.Advance(addr, nonce); err != nil {
					logger.Warn("failed to persist nonce", "nonce", nonce, "error", err)
				}
			}
			if nonce == math.MaxUint64 {
				g.recordError(fmt.Errorf("worker %d: %w", idx, ErrNonceExhausted))
				return
			}
			g.nonces[idx].Store(nonce + 1)
		case errors.Is(err, common.ErrRemoteRejection):
			// The nonce was not consumed, so the next attempt reuses it
			g.metrics.RecordReject()
			logger.Warn("transaction rejected", "nonce", nonce, "error", err)
		case ctx.Err() != nil:
			return
		default:
			g.metrics.RecordFailure()
			logger.Warn("transaction submission failed", "nonce", nonce, "error", err)
		}
	}
}
