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

func channelHooks(mock *dataplane.Mock) engine.Hooks[attr.Channel] {
	return engine.Hooks[attr.Channel]{
		CreateDefault:          attr.CreateDefaultChannel,
		Equals:                 attr.EqualsChannel,
		EqualsWithoutNames:     attr.EqualsWithoutNamesChannel,
		Duplicate:              attr.DuplicateChannel,
		DuplicateWithNamespace: attr.DuplicateChannelWithNamespace,
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *attr.Channel) *appErr {
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

func channelOptionTable(scratch *attr.Channel) dispatch.OptionTable {
	return dispatch.OptionTable{
		"-dst-addr": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetDstAddr(raw)
		},
		"-dst-port": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			v, err := dispatch.ParseUint(raw, 32)
			if err != nil {
				return err
			}
			return scratch.SetDstPort(int(v))
		},
		"-protocol": func(present bool, raw string) *apperrors.AppError {
			if !present {
				return nil
			}
			return scratch.SetProtocol(attr.ChannelProtocol(raw))
		},
	}
}

// DispatchChannel is the channel kind's command entry point.
func (ds *Datastore) DispatchChannel(ctx context.Context, state engine.State, argv []string) *apperrors.AppError {
	req, err := dispatch.Parse(argv)
	if err != nil {
		return err
	}
	name, err := fullname.Parse(req.FullnameStr)
	if err != nil {
		return err
	}

	apply := func(a *attr.Channel) *apperrors.AppError {
		return dispatch.Apply(channelOptionTable(a), req.Args)
	}

	switch req.Sub {
	case dispatch.Create:
		return genericCreate(ctx, ds.Channels, name, state, apply)
	case dispatch.Config:
		return genericConfig(ctx, ds.Channels, name, state, apply)
	case dispatch.Enable:
		return genericEnable(ctx, ds.Channels, name, state)
	case dispatch.Disable:
		return genericDisable(ctx, ds.Channels, name, state)
	case dispatch.Destroy:
		return genericDestroy(ctx, ds.Channels, name, state)
	default:
		return apperrors.ErrInvalidArgsf("unknown channel sub-command %q", req.Sub)
	}
}
