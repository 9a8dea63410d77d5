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

func queueHooks(mock *dataplane.Mock) engine.Hooks[attr.Queue] {
	return engine.Hooks[attr.Queue]{
		CreateDefault:          attr.CreateDefaultQueue,
		Equals:                 attr.EqualsQueue,
		EqualsWithoutNames:     attr.EqualsWithoutNamesQueue,
		Duplicate:              attr.DuplicateQueue,
		DuplicateWithNamespace: attr.DuplicateQueueWithNamespace,
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Queue) *appErr {
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

func queueOptionTable(scratch *attr.Queue) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-type": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetType(attr.QueueType(raw))
		},
		"-id": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 32)
			if err != nil {
				return err
			}
			return scratch.SetID(uint32(v))
		},
		"-priority": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 16)
			if err != nil {
				return err
			}
			return scratch.SetPriority(uint16(v))
		},
		"-color": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetColor(attr.QueueColor(raw))
		},
		"-committed-burst-size": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetCommittedBurstSize(v)
		},
		"-committed-information-rate": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetCommittedInformationRate(v)
		},
		"-excess-burst-size": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetExcessBurstSize(v)
		},
		"-peak-burst-size": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetPeakBurstSize(v)
		},
		"-peak-information-rate": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 64)
			if err != nil {
				return err
			}
			return scratch.SetPeakInformationRate(v)
		},
	}
}

// DispatchQueue is the queue kind's command entry point.
func (ds *Datastore) DispatchQueue(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Queue) *apperrors.AppError {
		if err := dispatch.Apply(queueOptionTable(a), req.Args); err != nil {
			return err
		}
		if a.Type == attr.QueueTypeUnknown {
			return apperrors.ErrInvalidArgsf("Bad required options(-type).")
		}
		return nil
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Queues, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Queues, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Queues, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Queues, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Queues, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown queue sub-command %q", req.Sub)
	}
}
