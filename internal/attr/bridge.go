package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"

	"lagopus.io/datastore/internal/fullname"
)

// Bridge is the attribute record for the bridge kind, the root of the
// kind-dependency DAG (spec §4.8: "bridge depends on controller, ports").
type Bridge struct {
	Controllers   *fullname.NameList
	Ports         *fullname.NameList
	FailMode      BridgeFailMode
	FlowStatAvg   bool
}

// BridgeFailMode enumerates datapath behaviour when every controller
// connection is down.
type BridgeFailMode string

const (
	BridgeFailModeUnknown BridgeFailMode = ""
	BridgeFailModeSecure  BridgeFailMode = "secure"
	BridgeFailModeStandalone BridgeFailMode = "standalone"
)

func CreateDefaultBridge() *Bridge {
	return &Bridge{
		Controllers: fullname.NewNameList(),
		Ports:       fullname.NewNameList(),
		FailMode:    BridgeFailModeSecure,
	}
}

func (a *Bridge) SetFailMode(m BridgeFailMode) *apperrors.AppError {
	switch m {
	case BridgeFailModeSecure, BridgeFailModeStandalone:
		a.FailMode = m
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown fail-mode %q", m)
	}
}

func (a *Bridge) SetFlowStatAvg(v bool) *apperrors.AppError {
	a.FlowStatAvg = v
	return nil
}

func EqualsBridge(a, b *Bridge) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.FailMode == b.FailMode &&
		a.FlowStatAvg == b.FlowStatAvg &&
		a.Controllers.Equal(b.Controllers) &&
		a.Ports.Equal(b.Ports)
}

func EqualsWithoutNamesBridge(a, b *Bridge) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.FailMode == b.FailMode && a.FlowStatAvg == b.FlowStatAvg
}

func DuplicateBridge(a *Bridge) *Bridge {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Controllers = a.Controllers.Duplicate()
	dup.Ports = a.Ports.Duplicate()
	return &dup
}

func DuplicateBridgeWithNamespace(a *Bridge, ns string) *Bridge {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Controllers = a.Controllers.DuplicateWithNamespace(ns)
	dup.Ports = a.Ports.DuplicateWithNamespace(ns)
	return &dup
}
