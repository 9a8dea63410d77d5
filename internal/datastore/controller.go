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

func controllerHooks(mock *dataplane.Mock, ch *Kind[attr.Channel]) engine.Hooks[attr.Controller] {
	return engine.Hooks[attr.Controller]{
		CreateDefault:          attr.CreateDefaultController,
		Equals:                 attr.EqualsController,
		EqualsWithoutNames:     attr.EqualsWithoutNamesController,
		Duplicate:              attr.DuplicateController,
		DuplicateWithNamespace: attr.DuplicateControllerWithNamespace,
		RefGroups: []engine.RefGroup[attr.Controller]{
			{
				Name:    "channel",
				Names:   func(a *attr.Controller) *fullname.NameList { return a.Channel },
				Enable:  ch.Engine.Enable,
				Disable: ch.Engine.Disable,
				Update:  ch.Engine.Update,
				SetUsed: ch.Engine.SetUsed,
				NativeAdd: func(ctx context.Context, parent, child fullname.Fullname) *appErr {
					return toAppErr(mock.Add(ctx, parent.String(), child.String()))
				},
				NativeDelete: func(ctx context.Context, parent, child fullname.Fullname) *appErr {
					return toAppErr(mock.Delete(ctx, parent.String(), child.String()))
				},
			},
		},
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Controller) *appErr {
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

func (ds *Datastore) controllerOptionTable(scratch *attr.Controller) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-channel": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Channel, lookupFn(ds.Channels.Store), raw)
		},
		"-role": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetRole(attr.ControllerRole(raw))
		},
	}
}

// DispatchController is the controller kind's command entry point.
func (ds *Datastore) DispatchController(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Controller) *apperrors.AppError {
		return dispatch.Apply(ds.controllerOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Controllers, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Controllers, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Controllers, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Controllers, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Controllers, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown controller sub-command %q", req.Sub)
	}
}
