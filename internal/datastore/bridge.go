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

func bridgeHooks(mock *dataplane.Mock, ctrl *Kind[attr.Controller], port *Kind[attr.Port]) engine.Hooks[attr.Bridge] {
	add := func(ctx context.Context, parent, child fullname.Fullname) *appErr {
		return toAppErr(mock.Add(ctx, parent.String(), child.String()))
	}
	del := func(ctx context.Context, parent, child fullname.Fullname) *appErr {
		return toAppErr(mock.Delete(ctx, parent.String(), child.String()))
	}
	return engine.Hooks[attr.Bridge]{
		CreateDefault:          attr.CreateDefaultBridge,
		Equals:                 attr.EqualsBridge,
		EqualsWithoutNames:     attr.EqualsWithoutNamesBridge,
		Duplicate:              attr.DuplicateBridge,
		DuplicateWithNamespace: attr.DuplicateBridgeWithNamespace,
		RefGroups: []engine.RefGroup[attr.Bridge]{
			{
				Name:         "controller",
				Names:        func(a *attr.Bridge) *fullname.NameList { return a.Controllers },
				Enable:       ctrl.Engine.Enable,
				Disable:      ctrl.Engine.Disable,
				Update:       ctrl.Engine.Update,
				SetUsed:      ctrl.Engine.SetUsed,
				NativeAdd:    add,
				NativeDelete: del,
			},
			{
				Name:         "port",
				Names:        func(a *attr.Bridge) *fullname.NameList { return a.Ports },
				Enable:       port.Engine.Enable,
				Disable:      port.Engine.Disable,
				Update:       port.Engine.Update,
				SetUsed:      port.Engine.SetUsed,
				NativeAdd:    add,
				NativeDelete: del,
			},
		},
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Bridge) *appErr {
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

func (ds *Datastore) bridgeOptionTable(scratch *attr.Bridge) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-controller": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Controllers, lookupFn(ds.Controllers.Store), raw)
		},
		"-port": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Ports, lookupFn(ds.Ports.Store), raw)
		},
		"-fail-mode": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetFailMode(attr.BridgeFailMode(raw))
		},
		"-flow-stat-avg": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			switch raw {
			case "true":
				return scratch.SetFlowStatAvg(true)
			case "false":
				return scratch.SetFlowStatAvg(false)
			}
			return apperrors.ErrInvalidArgsf("invalid -flow-stat-avg value %q", raw)
		},
	}
}

// DispatchBridge is the bridge kind's command entry point, the root of
// the kind-dependency DAG.
func (ds *Datastore) DispatchBridge(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Bridge) *apperrors.AppError {
		return dispatch.Apply(ds.bridgeOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Bridges, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Bridges, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Bridges, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Bridges, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Bridges, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown bridge sub-command %q", req.Sub)
	}
}
