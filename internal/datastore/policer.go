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

func policerHooks(mock *dataplane.Mock, pa *Kind[attr.PolicerAction]) engine.Hooks[attr.Policer] {
	return engine.Hooks[attr.Policer]{
		CreateDefault:          attr.CreateDefaultPolicer,
		Equals:                 attr.EqualsPolicer,
		EqualsWithoutNames:     attr.EqualsWithoutNamesPolicer,
		Duplicate:              attr.DuplicatePolicer,
		DuplicateWithNamespace: attr.DuplicatePolicerWithNamespace,
		RefGroups: []engine.RefGroup[attr.Policer]{
			{
				Name:    "action",
				Names:   func(a *attr.Policer) *fullname.NameList { return a.Refs() },
				Enable:  pa.Engine.Enable,
				Disable: pa.Engine.Disable,
				Update:  pa.Engine.Update,
				SetUsed: pa.Engine.SetUsed,
				NativeAdd: func(ctx context.Context, parent, child fullname.Fullname) *appErr {
					return toAppErr(mock.Add(ctx, parent.String(), child.String()))
				},
				NativeDelete: func(ctx context.Context, parent, child fullname.Fullname) *appErr {
					return toAppErr(mock.Delete(ctx, parent.String(), child.String()))
				},
			},
		},
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Policer) *appErr {
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

// policerOptionTable builds the -action/-bandwidth-limit/-burst-size-limit
// /-bandwidth-percent option table (spec §6) against scratch.
func (ds *Datastore) policerOptionTable(scratch *attr.Policer) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-action": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return applyNameListOption(scratch.Actions, lookupFn(ds.PolicerActions.Store), raw)
		},
		"-bandwidth-limit": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetBandwidthLimitBps(v)
		},
		"-burst-size-limit": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetBurstSizeLimit(v)
		},
		"-bandwidth-percent": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 8)
			if err != nil {
				return err
			}
			return scratch.SetBandwidthPercent(int(v))
		},
	}
}

// DispatchPolicer is the policer kind's command entry point (spec §4.6).
func (ds *Datastore) DispatchPolicer(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Policer) *apperrors.AppError {
		return dispatch.Apply(ds.policerOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Policers, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Policers, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Policers, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Policers, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Policers, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown policer sub-command %q", req.Sub)
	}
}
