/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package snapshot implements the lock-free reader described in §4.8: an
// atomically-swapped immutable snapshot of container values, read by many
// goroutines without blocking a concurrent writer. Grounded on the
// teacher's atomic.Bool/atomic.Uint64 bookkeeping in
// container/core/value_store.go, generalized here to atomic.Pointer over a
// whole value slice plus an epoch counter so a writer can tell when it is
// safe to reclaim a superseded snapshot. Each installed snapshot also
// carries a UUID correlation ID for tracing a given epoch across log lines.
package snapshot

import (
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kcenon/typedkv/container/core"
)

// Log is the logger snapshot reclamation is reported through; production
// code defaults to the standard logrus logger (§4.10), matching
// container/codec's logging convention.
var Log logrus.FieldLogger = logrus.StandardLogger()

// Snapshot is one immutable, point-in-time view of a value set.
type Snapshot struct {
	epoch         uint64
	correlationID string
	values        []core.Value
}

// Epoch returns the monotonically increasing generation number assigned
// when this snapshot was installed.
func (s *Snapshot) Epoch() uint64 { return s.epoch }

// CorrelationID returns the UUID assigned to this snapshot at Swap time, for
// tracing a reclaimed snapshot across log lines alongside its epoch.
func (s *Snapshot) CorrelationID() string { return s.correlationID }

// Values returns the snapshot's value slice. Callers must not mutate it;
// the slice is shared by every reader observing this epoch.
func (s *Snapshot) Values() []core.Value { return s.values }

// Get returns the first value named key, or nil if absent.
func (s *Snapshot) Get(key string) core.Value {
	for _, v := range s.values {
		if v.Name() == key {
			return v
		}
	}
	return nil
}

// Store holds the current snapshot pointer and the set of epochs readers
// are actively observing. Writers install new snapshots with Swap; readers
// never block a writer and a writer never blocks a reader.
type Store struct {
	current   atomic.Pointer[Snapshot]
	nextEpoch atomic.Uint64

	mu          chan struct{} // 1-buffered mutex guarding epochCounts
	epochCounts map[uint64]int64
}

// NewStore creates a Store seeded with an empty snapshot at epoch 0.
func NewStore() *Store {
	s := &Store{
		mu:          make(chan struct{}, 1),
		epochCounts: make(map[uint64]int64),
	}
	s.mu <- struct{}{}
	s.current.Store(&Snapshot{epoch: 0, correlationID: uuid.New().String(), values: nil})
	return s
}

func (s *Store) lock()   { <-s.mu }
func (s *Store) unlock() { s.mu <- struct{}{} }

// Swap installs a new immutable snapshot built from values, replacing
// whatever is currently visible to new readers. Existing readers keep
// seeing their already-acquired snapshot until they release it; Swap never
// blocks on them. Retries internally if a concurrent Swap races it (CAS
// loop), per §4.8's retry-on-contention requirement.
func (s *Store) Swap(values []core.Value) *Snapshot {
	for {
		old := s.current.Load()
		next := &Snapshot{epoch: s.nextEpoch.Add(1), correlationID: uuid.New().String(), values: values}
		if s.current.CompareAndSwap(old, next) {
			return next
		}
	}
}

// Acquire returns the current snapshot and marks its epoch as observed.
// The caller must call Release when done reading to allow reclamation
// bookkeeping to proceed.
func (s *Store) Acquire() *Snapshot {
	snap := s.current.Load()

	s.lock()
	s.epochCounts[snap.epoch]++
	s.unlock()

	return snap
}

// Release marks the end of a reader's observation of snap's epoch.
func (s *Store) Release(snap *Snapshot) {
	s.lock()
	defer s.unlock()

	s.epochCounts[snap.epoch]--
	if s.epochCounts[snap.epoch] <= 0 {
		delete(s.epochCounts, snap.epoch)
		Log.WithFields(logrus.Fields{
			"component":      "snapshot",
			"op":             "Release",
			"epoch":          snap.epoch,
			"correlation_id": snap.correlationID,
		}).Debug("snapshot epoch reclaimed")
	}
}

// Current returns the latest installed snapshot without registering as an
// active observer; use Acquire/Release around any read that must survive a
// concurrent Swap.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// ActiveEpochs reports which epochs still have at least one outstanding
// reader, for diagnostics and tests.
func (s *Store) ActiveEpochs() []uint64 {
	s.lock()
	defer s.unlock()

	epochs := make([]uint64, 0, len(s.epochCounts))
	for e, c := range s.epochCounts {
		if c > 0 {
			epochs = append(epochs, e)
		}
	}
	return epochs
}

// WithReader acquires the current snapshot, runs fn against it, and
// releases it afterward, guaranteeing the release happens even if fn
// panics.
func (s *Store) WithReader(fn func(*Snapshot)) {
	snap := s.Acquire()
	defer s.Release(snap)
	fn(snap)
}
