package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// InterfaceType enumerates the underlying device binding (spec §3; leaf
// kind, no cross-references).
type InterfaceType string

const (
	InterfaceTypeUnknown  InterfaceType = ""
	InterfaceTypeEthernet InterfaceType = "ethernet-dpdk-phy"
	InterfaceTypeVhost    InterfaceType = "ethernet-dpdk-vhost"
)

// MaxDeviceLength bounds the underlying device name.
const MaxDeviceLength = 64

// Interface is the attribute record for the interface kind.
type Interface struct {
	Type   InterfaceType
	Device string
}

func CreateDefaultInterface() *Interface {
	return &Interface{Type: InterfaceTypeUnknown}
}

func (a *Interface) SetType(t InterfaceType) *apperrors.AppError {
	switch t {
	case InterfaceTypeEthernet, InterfaceTypeVhost:
		a.Type = t
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown interface type %q", t)
	}
}

func (a *Interface) SetDevice(v string) *apperrors.AppError {
	if v == "" {
		return apperrors.ErrTooShortf("device name must not be empty")
	}
	if len(v) > MaxDeviceLength {
		return apperrors.ErrTooLongf("device name %q exceeds %d bytes", v, MaxDeviceLength)
	}
	a.Device = v
	return nil
}

func EqualsInterface(a, b *Interface) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func EqualsWithoutNamesInterface(a, b *Interface) bool {
	return EqualsInterface(a, b)
}

func DuplicateInterface(a *Interface) *Interface {
	if a == nil {
		return nil
	}
	dup := *a
	return &dup
}

func DuplicateInterfaceWithNamespace(a *Interface, _ string) *Interface {
	return DuplicateInterface(a)
}
