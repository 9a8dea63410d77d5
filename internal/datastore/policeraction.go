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

func policerActionHooks(mock *dataplane.Mock) engine.Hooks[attr.PolicerAction] {
	return engine.Hooks[attr.PolicerAction]{
		CreateDefault:          attr.CreateDefaultPolicerAction,
		Equals:                 attr.EqualsPolicerAction,
		EqualsWithoutNames:     attr.EqualsWithoutNamesPolicerAction,
		Duplicate:              attr.DuplicatePolicerAction,
		DuplicateWithNamespace: attr.DuplicatePolicerActionWithNamespace,
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.PolicerAction) *appErr {
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

func policerActionOptionTable(scratch *attr.PolicerAction) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-type": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetType(attr.PolicerActionType(raw))
		},
	}
}

// DispatchPolicerAction is the policer-action kind's command entry point.
func (ds *Datastore) DispatchPolicerAction(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.PolicerAction) *apperrors.AppError {
		return dispatch.Apply(policerActionOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.PolicerActions, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.PolicerActions, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.PolicerActions, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.PolicerActions, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.PolicerActions, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown policer-action sub-command %q", req.Sub)
	}
}
