package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"

	"lagopus.io/datastore/internal/fullname"
)

// Default values and range bounds for the policer kind (spec §3).
const (
	DefaultBandwidthLimitBps = uint64(1500)
	DefaultBurstSizeLimit    = uint64(1500)
	DefaultBandwidthPercent  = uint8(0)

	MinBandwidthPercent = uint8(0)
	MaxBandwidthPercent = uint8(100)
)

// Policer is the attribute record for the policer kind.
type Policer struct {
	Actions           *fullname.NameList
	BandwidthLimitBps uint64
	BurstSizeLimit    uint64
	BandwidthPercent  uint8
}

func CreateDefaultPolicer() *Policer {
	return &Policer{
		Actions:           fullname.NewNameList(),
		BandwidthLimitBps: DefaultBandwidthLimitBps,
		BurstSizeLimit:    DefaultBurstSizeLimit,
		BandwidthPercent:  DefaultBandwidthPercent,
	}
}

func (a *Policer) SetBandwidthLimitBps(v uint64) *apperrors.AppError {
	a.BandwidthLimitBps = v
	return nil
}

func (a *Policer) SetBurstSizeLimit(v uint64) *apperrors.AppError {
	a.BurstSizeLimit = v
	return nil
}

func (a *Policer) SetBandwidthPercent(v int) *apperrors.AppError {
	if v < int(MinBandwidthPercent) {
		return apperrors.ErrTooShortf("bandwidth-percent %d below minimum %d", v, MinBandwidthPercent)
	}
	if v > int(MaxBandwidthPercent) {
		return apperrors.ErrTooLongf("bandwidth-percent %d above maximum %d", v, MaxBandwidthPercent)
	}
	a.BandwidthPercent = uint8(v)
	return nil
}

func EqualsPolicer(a, b *Policer) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.BandwidthLimitBps == b.BandwidthLimitBps &&
		a.BurstSizeLimit == b.BurstSizeLimit &&
		a.BandwidthPercent == b.BandwidthPercent &&
		a.Actions.Equal(b.Actions)
}

// EqualsWithoutNamesPolicer excludes Actions: used by the engine to decide
// whether a change is structural (requires native recreate) or
// reference-only (spec §4.7).
func EqualsWithoutNamesPolicer(a, b *Policer) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.BandwidthLimitBps == b.BandwidthLimitBps &&
		a.BurstSizeLimit == b.BurstSizeLimit &&
		a.BandwidthPercent == b.BandwidthPercent
}

func DuplicatePolicer(a *Policer) *Policer {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Actions = a.Actions.Duplicate()
	return &dup
}

func DuplicatePolicerWithNamespace(a *Policer, ns string) *Policer {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Actions = a.Actions.DuplicateWithNamespace(ns)
	return &dup
}

// Refs returns the fullnames this attribute references as policer-action
// children, in insertion order.
func (a *Policer) Refs() *fullname.NameList {
	if a == nil {
		return fullname.NewNameList()
	}
	return a.Actions
}
