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

package loadgen

import (
	"log/slog"

	"github.com/blinklabs-io/gohaze/ledger"
	"github.com/blinklabs-io/gohaze/noncestore"
)

// DefaultBurst is the token bucket depth used when a rate is set without a burst
const DefaultBurst = 1

// LoadGenConfig holds configuration for a LoadGenerator.
type LoadGenConfig struct {
	// Signers holds one signing identity per worker. The worker count is len(Signers).
	Signers []ledger.Signer
	// StartNonces optionally sets the first nonce of each worker, by index.
	// Workers without an entry start from the nonce store, or zero.
	StartNonces []uint64
	// Rate is the combined submission rate in transactions per second.
	// Zero disables pacing.
	Rate float64
	// Burst is the token bucket depth of the shared limiter.
	Burst int
	// Total caps the number of submissions across all workers. Zero runs
	// until the context is cancelled.
	Total uint64
	// Build produces the transaction for a worker and nonce.
	Build BuildFunc
	// Submitter delivers built transactions.
	Submitter Submitter
	// NonceStore, when set, seeds starting nonces and records accepted ones.
	NonceStore *noncestore.Store
	// BuilderOptions are applied to every worker's Builder.
	BuilderOptions []ledger.BuilderOptionFunc
	Logger         *slog.Logger
}

// DefaultLoadGenConfig returns a LoadGenConfig with sensible defaults.
func DefaultLoadGenConfig() LoadGenConfig {
	return LoadGenConfig{
		Burst: DefaultBurst,
	}
}

// LoadGenOptionFunc is a functional option for configuring a LoadGenerator.
type LoadGenOptionFunc func(*LoadGenConfig)

// WithConfig applies a complete LoadGenConfig, replacing all default values.
// Options applied after WithConfig still override the config values.
func WithConfig(config LoadGenConfig) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		*c = config
	}
}

// WithSigners sets the per-worker signing identities
func WithSigners(signers ...ledger.Signer) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.Signers = signers
	}
}

// WithStartNonces sets the first nonce of each worker, by index
func WithStartNonces(nonces ...uint64) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.StartNonces = nonces
	}
}

// WithRate sets the combined submission rate in transactions per second.
func WithRate(rate float64) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		if rate >= 0 {
			c.Rate = rate
		}
	}
}

// WithBurst sets the token bucket depth of the shared limiter.
func WithBurst(burst int) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		if burst > 0 {
			c.Burst = burst
		}
	}
}

// WithTotal caps the number of submissions across all workers.
func WithTotal(total uint64) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.Total = total
	}
}

func WithBuildFunc(build BuildFunc) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.Build = build
	}
}

func WithSubmitter(submitter Submitter) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.Submitter = submitter
	}
}

// WithNonceStore persists accepted nonces and seeds workers from it
func WithNonceStore(store *noncestore.Store) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.NonceStore = store
	}
}

// WithBuilderOptions passes options such as a chain binding to every worker's Builder
func WithBuilderOptions(opts ...ledger.BuilderOptionFunc) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.BuilderOptions = append(c.BuilderOptions, opts...)
	}
}

func WithLogger(logger *slog.Logger) LoadGenOptionFunc {
	return func(c *LoadGenConfig) {
		c.Logger = logger
	}
}
