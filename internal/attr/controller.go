package attr

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"

	"lagopus.io/datastore/internal/fullname"
)

// ControllerRole enumerates the OpenFlow controller role.
type ControllerRole string

const (
	ControllerRoleUnknown   ControllerRole = ""
	ControllerRoleEqual     ControllerRole = "equal"
	ControllerRoleMaster    ControllerRole = "master"
	ControllerRoleSlave     ControllerRole = "slave"
)

// Controller is the attribute record for the controller kind.
type Controller struct {
	Channel *fullname.NameList
	Role    ControllerRole
}

func CreateDefaultController() *Controller {
	return &Controller{
		Channel: fullname.NewNameList(),
		Role:    ControllerRoleEqual,
	}
}

func (a *Controller) SetRole(r ControllerRole) *apperrors.AppError {
	switch r {
	case ControllerRoleEqual, ControllerRoleMaster, ControllerRoleSlave:
		a.Role = r
		return nil
	default:
		return apperrors.ErrInvalidArgsf("unknown controller role %q", r)
	}
}

func EqualsController(a, b *Controller) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Role == b.Role && a.Channel.Equal(b.Channel)
}

func EqualsWithoutNamesController(a, b *Controller) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Role == b.Role
}

func DuplicateController(a *Controller) *Controller {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Channel = a.Channel.Duplicate()
	return &dup
}

func DuplicateControllerWithNamespace(a *Controller, ns string) *Controller {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Channel = a.Channel.DuplicateWithNamespace(ns)
	return &dup
}
