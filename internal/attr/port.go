package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"

	"lagopus.io/datastore/internal/fullname"
)

// Port number range (spec §3, §4.3: "set_port_number(MIN-1) -> TooShort,
// (MAX+1) -> TooLong"). 0 and the all-ones value are reserved in OpenFlow.
const (
	MinPortNumber = uint32(1)
	MaxPortNumber = uint32(0xfffffffe)
)

// Port is the attribute record for the port kind. Interface and Policer
// are modelled as NameLists, so the engine's reference-group machinery
// (built on NameList.Diff) applies uniformly to every reference. Nothing
// limits them to one entry: each -interface or -policer add appends
// another name.
type Port struct {
	PortNumber uint32
	Interface  *fullname.NameList
	Policer    *fullname.NameList
	Queues     *fullname.NameList
}

func CreateDefaultPort() *Port {
	return &Port{
		Interface: fullname.NewNameList(),
		Policer:   fullname.NewNameList(),
		Queues:    fullname.NewNameList(),
	}
}

func (a *Port) SetPortNumber(v uint64) *apperrors.AppError {
	if v < uint64(MinPortNumber) {
		return apperrors.ErrTooShortf("port-number %d below minimum %d", v, MinPortNumber)
	}
	if v > uint64(MaxPortNumber) {
		return apperrors.ErrTooLongf("port-number %d above maximum %d", v, MaxPortNumber)
	}
	a.PortNumber = uint32(v)
	return nil
}

func EqualsPort(a, b *Port) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.PortNumber == b.PortNumber &&
		a.Interface.Equal(b.Interface) &&
		a.Policer.Equal(b.Policer) &&
		a.Queues.Equal(b.Queues)
}

// EqualsWithoutNamesPort excludes Interface/Policer/Queues.
func EqualsWithoutNamesPort(a, b *Port) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.PortNumber == b.PortNumber
}

func DuplicatePort(a *Port) *Port {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Interface = a.Interface.Duplicate()
	dup.Policer = a.Policer.Duplicate()
	dup.Queues = a.Queues.Duplicate()
	return &dup
}

func DuplicatePortWithNamespace(a *Port, ns string) *Port {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Interface = a.Interface.DuplicateWithNamespace(ns)
	dup.Policer = a.Policer.DuplicateWithNamespace(ns)
	dup.Queues = a.Queues.DuplicateWithNamespace(ns)
	return &dup
}
