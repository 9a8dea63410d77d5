// Package engine implements the transaction state machine that drives
// every kind's Conf through create/enable/disable/destroy and the
// interpreter states (spec §4.7, §4.8). One generic Engine instantiation
// serves all eight kinds; kind-specific behaviour (native dataplane calls,
// attribute equality/duplication, the set of child reference groups to
// propagate into) is supplied as a Hooks value by internal/datastore
// (spec §9: "a shared driver plus per-kind closures... collapses
// duplication while preserving semantics").
package engine

import (
	"context"

	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
	"lagopus.io/datastore/internal/pkg/logger"
	"lagopus.io/datastore/internal/store"

	"go.uber.org/zap"
)

// State is one of the interpreter states that govern do_update/do_destroy
// behaviour (spec §4.7).
type State int

const (
	AutoCommit State = iota
	Atomic
	Committing
	Committed
	Rollbacking
	Rollbacked
	Aborting
	Aborted
	Dryrun
)

func (s State) String() string {
	switch s {
	case AutoCommit:
		return "AUTO_COMMIT"
	case Atomic:
		return "ATOMIC"
	case Committing:
		return "COMMITTING"
	case Committed:
		return "COMMITTED"
	case Rollbacking:
		return "ROLLBACKING"
	case Rollbacked:
		return "ROLLBACKED"
	case Aborting:
		return "ABORTING"
	case Aborted:
		return "ABORTED"
	case Dryrun:
		return "DRYRUN"
	default:
		return "UNKNOWN"
	}
}

// autoCommitRetryBound caps the in-place retry loop AUTO_COMMIT performs
// on a failing do_update (spec §4.7 table, §7).
const autoCommitRetryBound = 3

// RefGroup binds one parent→child reference relationship to the child
// kind's own Engine entry points, so propagation recurses through the
// kind-dependency DAG (spec §4.8) without the parent kind needing to know
// anything about the child kind's attribute type.
type RefGroup[A any] struct {
	// Name labels the relationship for logging (e.g. "policer", "queues").
	Name string
	// Names extracts the referenced fullnames from an attribute value. A
	// single-valued reference is modelled as a NameList too.
	Names func(a *A) *fullname.NameList

	Enable  func(ctx context.Context, name fullname.Fullname) *apperrors.AppError
	Disable func(ctx context.Context, name fullname.Fullname) *apperrors.AppError
	// Update recursively drives the child's own do_update at the same
	// interpreter state as the propagating parent (spec §4.7: a parent's
	// COMMITTING/ROLLBACKING step must not let a child's own pending edit
	// land, or get discarded, ahead of the child's own recorded step).
	// propagate controls whether the child in turn propagates into its
	// children.
	Update func(ctx context.Context, name fullname.Fullname, state State, propagate bool) *apperrors.AppError
	// SetUsed flips the child's is_used flag; a missing child is a no-op
	// (spec §4.4).
	SetUsed func(name fullname.Fullname, used bool)

	NativeAdd    func(ctx context.Context, parent, child fullname.Fullname) *apperrors.AppError
	NativeDelete func(ctx context.Context, parent, child fullname.Fullname) *apperrors.AppError
}

// Hooks supplies everything kind-specific the engine needs to drive a
// Conf[A] through its lifecycle.
type Hooks[A any] struct {
	CreateDefault          func() *A
	Equals                 func(a, b *A) bool
	EqualsWithoutNames     func(a, b *A) bool
	Duplicate              func(a *A) *A
	DuplicateWithNamespace func(a *A, ns string) *A

	RefGroups []RefGroup[A]

	NativeCreate  func(ctx context.Context, name fullname.Fullname, a *A) *apperrors.AppError
	NativeDestroy func(ctx context.Context, name fullname.Fullname) *apperrors.AppError
	NativeStart   func(ctx context.Context, name fullname.Fullname) *apperrors.AppError
	NativeStop    func(ctx context.Context, name fullname.Fullname) *apperrors.AppError
}

// Engine drives Conf[A] records of one kind through the transaction state
// machine.
type Engine[A any] struct {
	Kind  string
	Store *store.Store[A]
	Hooks Hooks[A]
}

// New returns an Engine bound to st and hooks.
func New[A any](kind string, st *store.Store[A], hooks Hooks[A]) *Engine[A] {
	return &Engine[A]{Kind: kind, Store: st, Hooks: hooks}
}

func (e *Engine[A]) namesOf(rg RefGroup[A], a *A) *fullname.NameList {
	if a == nil {
		return fullname.NewNameList()
	}
	return rg.Names(a)
}

// Enable implements the child-facing half of a RefGroup: used by parent
// kinds to recurse into this engine when wiring their own Hooks.RefGroups.
func (e *Engine[A]) Enable(ctx context.Context, name fullname.Fullname) *apperrors.AppError {
	conf, ok := e.Store.Find(name)
	if !ok {
		return apperrors.ErrInvalidObjectf("%s %s not found", e.Kind, name.String())
	}
	if !conf.IsUsed {
		return apperrors.ErrNotOperationalf("%s %s has no referencing parent", e.Kind, name.String())
	}
	conf.IsEnabled = true
	return e.doUpdate(ctx, conf, AutoCommit, true, true)
}

// Disable is the child-facing disable entry point.
func (e *Engine[A]) Disable(ctx context.Context, name fullname.Fullname) *apperrors.AppError {
	conf, ok := e.Store.Find(name)
	if !ok {
		return apperrors.ErrInvalidObjectf("%s %s not found", e.Kind, name.String())
	}
	conf.IsEnabled = false
	return e.doUpdate(ctx, conf, AutoCommit, true, true)
}

// Update is the child-facing recursive do_update entry point used by a
// parent's RefGroup.Update. state is the propagating parent's own
// interpreter state, not always AUTO_COMMIT: a parent stepping through
// COMMITTING/ROLLBACKING must drive its children through that same state
// so a child with its own recorded step in the transaction isn't forced
// to settle (or discard) its pending edit early.
func (e *Engine[A]) Update(ctx context.Context, name fullname.Fullname, state State, propagate bool) *apperrors.AppError {
	conf, ok := e.Store.Find(name)
	if !ok {
		return nil
	}
	return e.doUpdate(ctx, conf, state, propagate, false)
}

// SetUsed flips is_used on the named Conf, silently ignoring a missing
// child (spec §4.4).
func (e *Engine[A]) SetUsed(name fullname.Fullname, used bool) {
	e.Store.SetUsed(name, used)
}

// Create allocates a new Conf for name with an empty current attr and a
// default-initialized modified attr, ready for option parsing.
func (e *Engine[A]) Create(name fullname.Fullname) (*store.Conf[A], *apperrors.AppError) {
	conf, err := e.Store.Create(name)
	if err != nil {
		return nil, err
	}
	conf.Modified = e.Hooks.CreateDefault()
	if err := e.Store.Add(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// BeginConfig returns the conf's modified attr, cloning current if no edit
// is already in flight, so option parsing always mutates a scratch copy
// (spec §7: "on failure it is discarded").
func (e *Engine[A]) BeginConfig(conf *store.Conf[A]) *A {
	if conf.Modified != nil {
		return e.Hooks.Duplicate(conf.Modified)
	}
	if conf.Current != nil {
		return e.Hooks.Duplicate(conf.Current)
	}
	return e.Hooks.CreateDefault()
}

// Destroy marks conf for destruction, refusing if it is still referenced
// (spec §4.4: "the destroy command refuses when is_used == true").
func (e *Engine[A]) Destroy(ctx context.Context, conf *store.Conf[A], state State) *apperrors.AppError {
	if conf.IsUsed {
		return apperrors.ErrNotOperationalf("%s %s is still referenced", e.Kind, conf.Name.String())
	}
	conf.IsDestroying = true
	return e.doDestroy(ctx, conf, state)
}

// Step applies one interpreter-state wrapper of do_update/do_destroy
// around conf, per the table in spec §4.7. enableDisableCmd distinguishes an explicit
// enable/disable sub-command from a plain create/config commit.
func (e *Engine[A]) Step(ctx context.Context, conf *store.Conf[A], state State, enableDisableCmd bool) *apperrors.AppError {
	switch state {
	case AutoCommit:
		var lastErr *apperrors.AppError
		wasFreshCreate := conf.Current == nil
		for attempt := 0; attempt < autoCommitRetryBound; attempt++ {
			lastErr = e.doUpdate(ctx, conf, state, true, enableDisableCmd)
			if lastErr == nil {
				return nil
			}
			logger.Warn("auto-commit retry",
				zap.String("kind", e.Kind), zap.String("name", conf.Name.String()),
				zap.Int("attempt", attempt), zap.Error(lastErr))
		}
		if wasFreshCreate {
			_ = e.doDestroy(ctx, conf, state)
		} else {
			conf.Modified = nil
		}
		return lastErr

	case Atomic:
		if conf.Modified != nil {
			for _, rg := range e.Hooks.RefGroups {
				for _, n := range e.namesOf(rg, conf.Modified).Iter() {
					rg.SetUsed(n, true)
				}
			}
		}
		if enableDisableCmd {
			if conf.IsEnabled {
				conf.IsEnabling, conf.IsDisabling = true, false
			} else {
				conf.IsDisabling, conf.IsEnabling = true, false
			}
		}
		return nil

	case Committing:
		conf.IsEnabled = conf.IsEnabled || conf.IsEnabling
		if conf.IsDisabling {
			conf.IsEnabled = false
		}
		conf.IsEnabling, conf.IsDisabling = false, false
		return e.doUpdate(ctx, conf, state, true, enableDisableCmd)

	case Committed:
		if conf.Modified != nil {
			conf.Current, conf.Modified = conf.Modified, nil
		}
		if conf.IsDestroying {
			return e.doDestroy(ctx, conf, state)
		}
		return nil

	case Rollbacking:
		if conf.Current == nil {
			if conf.Modified != nil {
				for _, rg := range e.Hooks.RefGroups {
					for _, n := range e.namesOf(rg, conf.Modified).Iter() {
						rg.SetUsed(n, false)
					}
				}
				conf.Modified = nil
			}
			return nil
		}
		conf.Modified, conf.Current = conf.Current, conf.Modified
		conf.IsEnabling, conf.IsDisabling = false, false
		return e.doUpdate(ctx, conf, state, true, false)

	case Rollbacked:
		if conf.Modified != nil {
			conf.Current, conf.Modified = conf.Modified, nil
		}
		if conf.IsDestroying {
			return e.doDestroy(ctx, conf, state)
		}
		return nil

	case Aborting:
		conf.IsDestroying = false
		if conf.Modified != nil {
			for _, rg := range e.Hooks.RefGroups {
				for _, n := range e.namesOf(rg, conf.Modified).Iter() {
					rg.SetUsed(n, false)
				}
			}
		}
		if conf.Current != nil {
			for _, rg := range e.Hooks.RefGroups {
				for _, n := range e.namesOf(rg, conf.Current).Iter() {
					rg.SetUsed(n, true)
				}
			}
		}
		conf.IsEnabling, conf.IsDisabling = false, false
		return nil

	case Aborted:
		if conf.Current == nil {
			return e.Store.Delete(conf.Name)
		}
		conf.Modified = nil
		return nil

	case Dryrun:
		if conf.IsDestroying {
			for _, rg := range e.Hooks.RefGroups {
				src := conf.Current
				if src == nil {
					src = conf.Modified
				}
				for _, n := range e.namesOf(rg, src).Iter() {
					rg.SetUsed(n, false)
				}
			}
			return e.Store.Delete(conf.Name)
		}
		if conf.Modified != nil {
			conf.Current, conf.Modified = conf.Modified, nil
		}
		return nil

	default:
		return apperrors.ErrInvalidArgsf("unknown interpreter state %v", state)
	}
}

// doUpdate is the central routine of spec §4.7.
func (e *Engine[A]) doUpdate(ctx context.Context, conf *store.Conf[A], state State, propagate bool, enableDisableCmd bool) *apperrors.AppError {
	isModified := conf.Modified != nil && !e.Hooks.Equals(conf.Current, conf.Modified)
	isModifiedWithoutNames := isModified &&
		(conf.Current == nil || !e.Hooks.EqualsWithoutNames(conf.Current, conf.Modified))

	if propagate {
		for _, rg := range e.Hooks.RefGroups {
			curList := e.namesOf(rg, conf.Current)
			modList := e.namesOf(rg, conf.Modified)
			notChanged, added, removed := curList.Diff(modList)
			for _, n := range concat(notChanged, added, removed) {
				_ = rg.Update(ctx, n, state, true) // inner InterpError ignored per spec §4.7
			}
		}
	}

	if isModified {
		if conf.Current != nil {
			for _, rg := range e.Hooks.RefGroups {
				for _, n := range e.namesOf(rg, conf.Current).Iter() {
					_ = rg.Disable(ctx, n)
					rg.SetUsed(n, false)
				}
			}
			if isModifiedWithoutNames {
				if err := e.Hooks.NativeDestroy(ctx, conf.Name); err != nil {
					logger.Warn("native destroy failed during update",
						zap.String("kind", e.Kind), zap.String("name", conf.Name.String()), zap.Error(err))
				}
			} else {
				for _, rg := range e.Hooks.RefGroups {
					_, _, removed := e.namesOf(rg, conf.Current).Diff(e.namesOf(rg, conf.Modified))
					for _, n := range removed {
						_ = rg.NativeDelete(ctx, conf.Name, n)
					}
				}
			}
		}

		if conf.Current == nil || isModifiedWithoutNames {
			if err := e.Hooks.NativeCreate(ctx, conf.Name, conf.Modified); err != nil {
				return err
			}
			for _, rg := range e.Hooks.RefGroups {
				for _, n := range e.namesOf(rg, conf.Modified).Iter() {
					if err := rg.NativeAdd(ctx, conf.Name, n); err != nil {
						return apperrors.ErrInterpErrorf(n.String(), "%s", err.Message)
					}
				}
			}
		} else {
			for _, rg := range e.Hooks.RefGroups {
				_, added, _ := e.namesOf(rg, conf.Current).Diff(e.namesOf(rg, conf.Modified))
				for _, n := range added {
					if err := rg.NativeAdd(ctx, conf.Name, n); err != nil {
						return apperrors.ErrInterpErrorf(n.String(), "%s", err.Message)
					}
				}
			}
		}

		for _, rg := range e.Hooks.RefGroups {
			for _, n := range e.namesOf(rg, conf.Modified).Iter() {
				rg.SetUsed(n, true)
			}
		}

		if conf.IsEnabled {
			if err := e.Hooks.NativeStart(ctx, conf.Name); err != nil {
				return err
			}
			for _, rg := range e.Hooks.RefGroups {
				for _, n := range e.namesOf(rg, conf.Modified).Iter() {
					if err := rg.Enable(ctx, n); err != nil {
						return apperrors.ErrInterpErrorf(n.String(), "%s", err.Message)
					}
				}
			}
		}

		if state != Committing && state != Rollbacking {
			conf.Current, conf.Modified = conf.Modified, nil
		}
		return nil
	}

	if enableDisableCmd || conf.IsEnabling || conf.IsDisabling {
		if conf.IsEnabled || conf.IsEnabling {
			if err := e.Hooks.NativeStart(ctx, conf.Name); err != nil {
				return err
			}
		} else {
			if err := e.Hooks.NativeStop(ctx, conf.Name); err != nil {
				return err
			}
		}
		conf.IsEnabling, conf.IsDisabling = false, false
	}
	return nil
}

// doDestroy implements spec §4.7's do_destroy helper.
func (e *Engine[A]) doDestroy(ctx context.Context, conf *store.Conf[A], state State) *apperrors.AppError {
	if conf.Current != nil && (conf.IsDestroying || state == AutoCommit || state == Dryrun) {
		for _, rg := range e.Hooks.RefGroups {
			for _, n := range e.namesOf(rg, conf.Current).Iter() {
				rg.SetUsed(n, false)
			}
		}
		if err := e.Hooks.NativeDestroy(ctx, conf.Name); err != nil {
			logger.Warn("native destroy failed",
				zap.String("kind", e.Kind), zap.String("name", conf.Name.String()), zap.Error(err))
		}
	}
	return e.Store.Delete(conf.Name)
}

func concat(lists ...[]fullname.Fullname) []fullname.Fullname {
	var out []fullname.Fullname
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
