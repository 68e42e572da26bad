package database

import (
	"context"
	"log/slog"
	"sync"
)

// Aligner brings a freshly acquired store up to the current schema. Steps must
// be idempotent (CREATE ... IF NOT EXISTS, ADD COLUMN IF NOT EXISTS).
type Aligner interface {
	Align(ctx context.Context, db *DB) error
}

type alignState struct {
	mu   sync.Mutex
	done bool
}

// AlignmentRegistry remembers which stores were already aligned during this
// process lifetime. Concurrent callers for the same key wait for the first one;
// different keys never block each other. A failed run is not recorded.
type AlignmentRegistry struct {
	aligner Aligner

	mu     sync.Mutex
	states map[string]*alignState
}

func NewAlignmentRegistry(aligner Aligner) *AlignmentRegistry {
	return &AlignmentRegistry{
		aligner: aligner,
		states:  make(map[string]*alignState),
	}
}

func (r *AlignmentRegistry) state(key string) *alignState {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[key]
	if !ok {
		st = &alignState{}
		r.states[key] = st
	}
	return st
}

// Ensure runs the aligner for db unless it already succeeded for db.Key.
func (r *AlignmentRegistry) Ensure(ctx context.Context, db *DB) error {
	st := r.state(db.Key)

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.done {
		return nil
	}

	if err := r.aligner.Align(ctx, db); err != nil {
		slog.Error("Schema alignment failed", "store", RedactKey(db.Key), "error", err)
		return err
	}

	st.done = true
	slog.Info("Schema aligned", "store", RedactKey(db.Key))
	return nil
}

// Aligned reports whether key has been aligned.
func (r *AlignmentRegistry) Aligned(key string) bool {
	st := r.state(key)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.done
}
