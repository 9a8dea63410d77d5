package datastore

import (
	"context"
	"sync"

	"lagopus.io/datastore/internal/engine"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// stepFn finalizes one previously-touched Conf through an interpreter
// state, closed over its owning Engine so Session never needs to know the
// Conf's attribute type.
type stepFn func(ctx context.Context, state engine.State) *apperrors.AppError

// Session accumulates every Conf touched by sub-commands issued under
// ATOMIC so a subsequent Commit, Rollback, or Abort can drive all of them
// through the matching interpreter-state pair together (spec §4.7, §5:
// "multiple sub-commands, across object kinds, commit or roll back as a
// unit").
type Session struct {
	mu      sync.Mutex
	touched []stepFn
}

// NewSession starts a new atomic transaction.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) record(fn stepFn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = append(s.touched, fn)
}

// finalize drives every touched Conf through first, then through second,
// in two full passes so no Conf reaches the terminal state before its
// siblings have left the transitional one (mirrors the two-phase
// COMMITTING/COMMITTED and ROLLBACKING/ROLLBACKED handling of spec §4.7).
// It returns the first error encountered but keeps finalizing the rest,
// since a transaction must not leave half its members stranded mid-state.
func (s *Session) finalize(ctx context.Context, first, second engine.State) *apperrors.AppError {
	s.mu.Lock()
	fns := s.touched
	s.touched = nil
	s.mu.Unlock()

	var firstErr *apperrors.AppError
	for _, fn := range fns {
		if err := fn(ctx, first); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, fn := range fns {
		if err := fn(ctx, second); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Commit finalizes the transaction, applying every accumulated edit
// (COMMITTING then COMMITTED).
func (s *Session) Commit(ctx context.Context) *apperrors.AppError {
	return s.finalize(ctx, engine.Committing, engine.Committed)
}

// Rollback discards every accumulated edit and restores prior state
// (ROLLBACKING then ROLLBACKED).
func (s *Session) Rollback(ctx context.Context) *apperrors.AppError {
	return s.finalize(ctx, engine.Rollbacking, engine.Rollbacked)
}

// Abort discards every accumulated edit without restoring native state,
// used when a sub-command failed mid-transaction (ABORTING then ABORTED).
func (s *Session) Abort(ctx context.Context) *apperrors.AppError {
	return s.finalize(ctx, engine.Aborting, engine.Aborted)
}

type sessionKey struct{}

// WithSession attaches s to ctx so every Dispatch call issued against that
// context records into the same transaction.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
