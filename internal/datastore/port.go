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

func portHooks(mock *dataplane.Mock, ifc *Kind[attr.Interface], pol *Kind[attr.Policer], q *Kind[attr.Queue]) engine.Hooks[attr.Port] {
	add := func(ctx context.Context, parent, child fullname.Fullname) *appErr {
		return toAppErr(mock.Add(ctx, parent.String(), child.String()))
	}
	del := func(ctx context.Context, parent, child fullname.Fullname) *appErr {
		return toAppErr(mock.Delete(ctx, parent.String(), child.String()))
	}
	return engine.Hooks[attr.Port]{
		CreateDefault:          attr.CreateDefaultPort,
		Equals:                 attr.EqualsPort,
		EqualsWithoutNames:     attr.EqualsWithoutNamesPort,
		Duplicate:              attr.DuplicatePort,
		DuplicateWithNamespace: attr.DuplicatePortWithNamespace,
		RefGroups: []engine.RefGroup[attr.Port]{
			{
				Name:         "interface",
				Names:        func(a *attr.Port) *fullname.NameList { return a.Interface },
				Enable:       ifc.Engine.Enable,
				Disable:      ifc.Engine.Disable,
				Update:       ifc.Engine.Update,
				SetUsed:      ifc.Engine.SetUsed,
				NativeAdd:    add,
				NativeDelete: del,
			},
			{
				Name:         "policer",
				Names:        func(a *attr.Port) *fullname.NameList { return a.Policer },
				Enable:       pol.Engine.Enable,
				Disable:      pol.Engine.Disable,
				Update:       pol.Engine.Update,
				SetUsed:      pol.Engine.SetUsed,
				NativeAdd:    add,
				NativeDelete: del,
			},
			{
				Name:         "queue",
				Names:        func(a *attr.Port) *fullname.NameList { return a.Queues },
				Enable:       q.Engine.Enable,
				Disable:      q.Engine.Disable,
				Update:       q.Engine.Update,
				SetUsed:      q.Engine.SetUsed,
				NativeAdd:    add,
				NativeDelete: del,
			},
		},
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Port) *appErr {
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

func (ds *Datastore) portOptionTable(scratch *attr.Port) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-port-number": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetPortNumber(v)
		},
		"-interface": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Interface, lookupFn(ds.Interfaces.Store), raw)
		},
		"-policer": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Policer, lookupFn(ds.Policers.Store), raw)
		},
		"-queue": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Queues, lookupFn(ds.Queues.Store), raw)
		},
	}
}

// DispatchPort is the port kind's command entry point.
func (ds *Datastore) DispatchPort(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Port) *apperrors.AppError {
		return dispatch.Apply(ds.portOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Ports, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Ports, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Ports, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Ports, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Ports, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown port sub-command %q", req.Sub)
	}
}
