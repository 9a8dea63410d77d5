// Package datastore wires the generic transaction engine (internal/engine)
// to the eight concrete object kinds (spec §3), builds the kind-dependency
// DAG's propagation wiring (spec §4.8), and exposes the per-kind
// command-dispatcher entry points (spec §4.5, §4.6).
package datastore

import (
	"context"

	"lagopus.io/datastore/internal/dataplane"
	"lagopus.io/datastore/internal/dispatch"
	"lagopus.io/datastore/internal/engine"
	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
	"lagopus.io/datastore/internal/store"
)

// appErr aliases the shared result-code error type for brevity in the
// per-kind hook wiring files.
type appErr = apperrors.AppError

// Kind bundles one object kind's store, engine, and native dataplane
// binding.
type Kind[A any] struct {
	Name   string
	Store  *store.Store[A]
	Engine *engine.Engine[A]
	Mock   *dataplane.Mock
}

func newKind[A any](name string, buildHooks func(mock *dataplane.Mock) engine.Hooks[A]) *Kind[A] {
	st := store.New[A]()
	st.Init()
	mock := dataplane.NewMock()
	eng := engine.New[A](name, st, buildHooks(mock))
	return &Kind[A]{Name: name, Store: st, Engine: eng, Mock: mock}
}

func toAppErr(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	return apperrors.ErrNotOperationalf("native dataplane call failed: %v", err)
}

// lookupFn adapts a child Store into the (exists, used) predicate
// applyNameListOption needs to validate a name-list "add".
func lookupFn[C any](st *store.Store[C]) func(fullname.Fullname) (exists, used bool) {
	return func(name fullname.Fullname) (bool, bool) {
		c, ok := st.Find(name)
		if !ok {
			return false, false
		}
		return true, c.IsUsed
	}
}

// applyNameListOption implements the name-list add/remove option grammar
// of spec §4.5 against a single NameList field.
func applyNameListOption(list *fullname.NameList, lookup func(fullname.Fullname) (exists, used bool), raw string) *apperrors.AppError {
	op, nameStr := dispatch.ParseNameRef(raw)
	name, err := fullname.Parse(nameStr)
	if err != nil {
		return err
	}
	if op == dispatch.OpAdd {
		exists, used := lookup(name)
		if !exists {
			return apperrors.ErrNotFoundf("%s not found", name.String())
		}
		if used {
			return apperrors.ErrNotOperationalf("%s is already referenced by another object", name.String())
		}
		return list.Add(name)
	}
	return list.Remove(name)
}

// recordIfAtomic registers a finalizer closure on the session carried in
// ctx (if any) whenever state is ATOMIC, so a later Session.Commit/
// Rollback/Abort can drive conf through COMMITTING/COMMITTED,
// ROLLBACKING/ROLLBACKED, or ABORTING/ABORTED (spec §4.7, §5: "across
// sub-commands in an atomic transaction"). A no-op outside a session.
func recordIfAtomic[A any](ctx context.Context, state engine.State, eng *engine.Engine[A], conf *store.Conf[A], enableDisableCmd bool) {
	if state != engine.Atomic {
		return
	}
	s := sessionFromContext(ctx)
	if s == nil {
		return
	}
	s.record(func(ctx context.Context, final engine.State) *apperrors.AppError {
		return eng.Step(ctx, conf, final, enableDisableCmd)
	})
}

// genericCreate implements the create sub-command (spec §4.6): fails
// AlreadyExists if a Conf with that name exists, including one that is
// marked destroying.
func genericCreate[A any](ctx context.Context, k *Kind[A], name fullname.Fullname, state engine.State, applyOptions func(a *A) *apperrors.AppError) *apperrors.AppError {
	conf, err := k.Engine.Create(name)
	if err != nil {
		return err
	}
	if applyOptions != nil {
		if err := applyOptions(conf.Modified); err != nil {
			_ = k.Store.Delete(name)
			return err
		}
	}
	if err := k.Engine.Step(ctx, conf, state, false); err != nil {
		return err
	}
	recordIfAtomic(ctx, state, k.Engine, conf, false)
	return nil
}

// genericConfig implements the config sub-command. A missing name falls
// through to create (spec §4.6).
func genericConfig[A any](ctx context.Context, k *Kind[A], name fullname.Fullname, state engine.State, applyOptions func(a *A) *apperrors.AppError) *apperrors.AppError {
	conf, ok := k.Store.Find(name)
	if !ok {
		return genericCreate(ctx, k, name, state, applyOptions)
	}
	scratch := k.Engine.BeginConfig(conf)
	if applyOptions != nil {
		if err := applyOptions(scratch); err != nil {
			return err
		}
	}
	conf.Modified = scratch
	if err := k.Engine.Step(ctx, conf, state, false); err != nil {
		return err
	}
	recordIfAtomic(ctx, state, k.Engine, conf, false)
	return nil
}

// genericEnable implements the enable sub-command: refused on a missing
// or destroying Conf (InvalidObject) or an unreferenced one
// (NotOperational, spec §4.4).
func genericEnable[A any](ctx context.Context, k *Kind[A], name fullname.Fullname, state engine.State) *apperrors.AppError {
	conf, ok := k.Store.Find(name)
	if !ok || conf.IsDestroying {
		return apperrors.ErrInvalidObjectf("%s %s not found", k.Name, name.String())
	}
	if !conf.IsUsed {
		return apperrors.ErrNotOperationalf("%s %s has no referencing parent", k.Name, name.String())
	}
	conf.IsEnabled = true
	if err := k.Engine.Step(ctx, conf, state, true); err != nil {
		return err
	}
	recordIfAtomic(ctx, state, k.Engine, conf, true)
	return nil
}

func genericDisable[A any](ctx context.Context, k *Kind[A], name fullname.Fullname, state engine.State) *apperrors.AppError {
	conf, ok := k.Store.Find(name)
	if !ok || conf.IsDestroying {
		return apperrors.ErrInvalidObjectf("%s %s not found", k.Name, name.String())
	}
	conf.IsEnabled = false
	if err := k.Engine.Step(ctx, conf, state, true); err != nil {
		return err
	}
	recordIfAtomic(ctx, state, k.Engine, conf, true)
	return nil
}

// genericDestroy implements the destroy sub-command. Under ATOMIC it only
// marks the intent and defers the native teardown to the session's
// Commit/Rollback/Abort, matching every other sub-command's deferral
// (spec §5); outside a transaction it destroys immediately.
func genericDestroy[A any](ctx context.Context, k *Kind[A], name fullname.Fullname, state engine.State) *apperrors.AppError {
	conf, ok := k.Store.Find(name)
	if !ok {
		return apperrors.ErrNotFoundf("%s %s not found", k.Name, name.String())
	}
	if conf.IsUsed {
		return apperrors.ErrNotOperationalf("%s %s is still referenced", k.Name, name.String())
	}
	if state == engine.Atomic {
		conf.IsDestroying = true
		if err := k.Engine.Step(ctx, conf, state, false); err != nil {
			return err
		}
		recordIfAtomic(ctx, state, k.Engine, conf, false)
		return nil
	}
	return k.Engine.Destroy(ctx, conf, state)
}
