package datastore

import (
	"context"

	"lagopus.io/datastore/internal/attr"
	"lagopus.io/datastore/internal/dataplane"
	"lagopus.io/datastore/internal/dispatch"
	"lagopus.io/datastore/internal/engine"
	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

func interfaceHooks(mock *dataplane.Mock) engine.Hooks[attr.Interface] {
	return engine.Hooks[attr.Interface]{
		CreateDefault:          attr.CreateDefaultInterface,
		Equals:                 attr.EqualsInterface,
		EqualsWithoutNames:     attr.EqualsWithoutNamesInterface,
		Duplicate:              attr.DuplicateInterface,
		DuplicateWithNamespace: attr.DuplicateInterfaceWithNamespace,
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Interface) *appErr {
			return toAppErr(mock.Create(ctx, name.String(), a))
		},
		NativeDestroy: func(ctx context.Context, name fullname.Fullname) *appErr {
			return toAppErr(mock.Destroy(ctx, name.String()))
		},
		NativeStart: func(ctx context.Context, name fullname.Fullname) *appErr {
			return toAppErr(mock.Start(ctx, name.String()))
		},
		NativeStop: func(ctx context.Context, name fullname.Fullname) *appErr {
			return toAppErr(mock.Stop(ctx, name.String()))
		},
	}
}

func interfaceOptionTable(scratch *attr.Interface) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-type": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetType(attr.InterfaceType(raw))
		},
		"-device": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetDevice(raw)
		},
	}
}

// DispatchInterface is the interface kind's command entry point.
func (ds *Datastore) DispatchInterface(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Interface) *apperrors.AppError {
		return dispatch.Apply(interfaceOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Interfaces, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Interfaces, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Interfaces, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Interfaces, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Interfaces, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown interface sub-command %q", req.Sub)
	}
}
