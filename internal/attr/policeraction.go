// Package attr defines the per-kind attribute records (spec §3, §4.3):
// typed value objects with range-checked setters, equality, and
// namespace-aware duplication. Attribute types carry no behaviour beyond
// their own fields; the transaction engine (internal/engine) supplies the
// generic commit/rollback/propagation machinery via closures over these
// types, and internal/datastore wires the two together per kind.
package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// PolicerActionType enumerates the policer-action kind's single typed
// field. The zero value is the "unknown" sentinel (spec §3).
type PolicerActionType string

const (
	PolicerActionUnknown PolicerActionType = ""
	PolicerActionDiscard PolicerActionType = "discard"
)

// PolicerAction is the attribute record for the policer-action kind.
type PolicerAction struct {
	actionType PolicerActionType
}

// CreateDefaultPolicerAction returns a fresh, unconfigured attribute
// record, the starting point for a "create" sub-command.
func CreateDefaultPolicerAction() *PolicerAction {
	return &PolicerAction{actionType: PolicerActionUnknown}
}

func (a *PolicerAction) Type() PolicerActionType { return a.actionType }

func (a *PolicerAction) SetType(t PolicerActionType) *apperrors.AppError {
	switch t {
	case PolicerActionDiscard:
		a.actionType = t
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown policer-action type %q", t)
	}
}

// EqualsPolicerAction compares two records field-by-field. Nil is treated
// as "absent" and equal only to nil.
func EqualsPolicerAction(a, b *PolicerAction) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.actionType == b.actionType
}

// EqualsWithoutNamesPolicerAction has no name-list fields to exclude, so
// it is identical to EqualsPolicerAction.
func EqualsWithoutNamesPolicerAction(a, b *PolicerAction) bool {
	return EqualsPolicerAction(a, b)
}

func DuplicatePolicerAction(a *PolicerAction) *PolicerAction {
	if a == nil {
		return nil
	}
	dup := *a
	return &dup
}

// DuplicatePolicerActionWithNamespace is identical to DuplicatePolicerAction:
// the kind carries no fullname references.
func DuplicatePolicerActionWithNamespace(a *PolicerAction, _ string) *PolicerAction {
	return DuplicatePolicerAction(a)
}
