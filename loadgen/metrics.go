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
	"sync"
	"sync/atomic"
	"time"
)

// LoadGenStats contains a snapshot of load generator counters.
type LoadGenStats struct {
	// Submitted is the number of transactions handed to the submitter.
	Submitted uint64
	// Accepted is the number of transactions the ledger accepted.
	Accepted uint64
	// Rejected is the number of transactions the ledger declined.
	Rejected uint64
	// Failed is the number of submissions that never got a ledger verdict,
	// such as transport errors and timeouts.
	Failed uint64
	// BuildErrors is the number of transactions that could not be built or signed.
	BuildErrors uint64

	LastAcceptTime time.Time
	StartTime      time.Time
}

// Elapsed returns the time since the load generator was started
func (s LoadGenStats) Elapsed() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	return time.Since(s.StartTime)
}

// AcceptRate returns accepted transactions per second over the run so far
func (s LoadGenStats) AcceptRate() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Accepted) / elapsed
}

// LoadGenMetrics tracks submission outcomes.
// Uses atomic counters for thread-safe operation.
type LoadGenMetrics struct {
	submitted   atomic.Uint64
	accepted    atomic.Uint64
	rejected    atomic.Uint64
	failed      atomic.Uint64
	buildErrors atomic.Uint64

	mu             sync.RWMutex
	lastAcceptTime time.Time
	startTime      time.Time
}

func NewLoadGenMetrics() *LoadGenMetrics {
	return &LoadGenMetrics{
		startTime: time.Now(),
	}
}

func (m *LoadGenMetrics) RecordSubmit() {
	m.submitted.Add(1)
}

func (m *LoadGenMetrics) RecordAccept() {
	m.accepted.Add(1)
	m.mu.Lock()
	m.lastAcceptTime = time.Now()
	m.mu.Unlock()
}

func (m *LoadGenMetrics) RecordReject() {
	m.rejected.Add(1)
}

func (m *LoadGenMetrics) RecordFailure() {
	m.failed.Add(1)
}

func (m *LoadGenMetrics) RecordBuildError() {
	m.buildErrors.Add(1)
}

// Stats returns a snapshot of the current metrics.
func (m *LoadGenMetrics) Stats() LoadGenStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return LoadGenStats{
		Submitted:      m.submitted.Load(),
		Accepted:       m.accepted.Load(),
		Rejected:       m.rejected.Load(),
		Failed:         m.failed.Load(),
		BuildErrors:    m.buildErrors.Load(),
		LastAcceptTime: m.lastAcceptTime,
		StartTime:      m.startTime,
	}
}

// Reset resets all metrics.
func (m *LoadGenMetrics) Reset() {
	m.submitted.Store(0)
	m.accepted.Store(0)
	m.rejected.Store(0)
	m.failed.Store(0)
	m.buildErrors.Store(0)

	m.mu.Lock()
	m.lastAcceptTime = time.Time{}
	m.startTime = time.Now()
	m.mu.Unlock()
}
