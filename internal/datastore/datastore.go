package datastore

import (
	"context"

	"lagopus.io/datastore/internal/attr"
	"lagopus.io/datastore/internal/dataplane"
	"lagopus.io/datastore/internal/engine"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// Datastore bundles every kind's Store/Engine pair, wired in dependency
// order so each parent kind's RefGroups recurse into its children's own
// engines (spec §4.8: "policer depends on policer-actions, port depends
// on interface/policer/queues, bridge depends on controller/ports,
// controller depends on channel").
type Datastore struct {
	PolicerActions *Kind[attr.PolicerAction]
	Channels       *Kind[attr.Channel]
	Interfaces     *Kind[attr.Interface]
	Queues         *Kind[attr.Queue]
	Policers       *Kind[attr.Policer]
	Controllers    *Kind[attr.Controller]
	Ports          *Kind[attr.Port]
	Bridges        *Kind[attr.Bridge]
}

// New builds a Datastore with every store initialized and every
// propagation edge wired, leaves first.
func New() *Datastore {
	pa := newKind("policer-action", policerActionHooks)
	ch := newKind("channel", channelHooks)
	ifc := newKind("interface", interfaceHooks)
	q := newKind("queue", queueHooks)

	pol := newKind("policer", func(mock *dataplane.Mock) engine.Hooks[attr.Policer] {
		return policerHooks(mock, pa)
	})
	ctrl := newKind("controller", func(mock *dataplane.Mock) engine.Hooks[attr.Controller] {
		return controllerHooks(mock, ch)
	})
	port := newKind("port", func(mock *dataplane.Mock) engine.Hooks[attr.Port] {
		return portHooks(mock, ifc, pol, q)
	})
	bridge := newKind("bridge", func(mock *dataplane.Mock) engine.Hooks[attr.Bridge] {
		return bridgeHooks(mock, ctrl, port)
	})

	return &Datastore{
		PolicerActions: pa,
		Channels:       ch,
		Interfaces:     ifc,
		Queues:         q,
		Policers:       pol,
		Controllers:    ctrl,
		Ports:          port,
		Bridges:        bridge,
	}
}

// Dispatch routes a command to the named kind's entry point (spec §6
// grammar: "<kind> <fullname> <sub-cmd> [options...]").
func (ds *Datastore) Dispatch(ctx context.Context, state engine.State, kind string, argv []string) *apperrors.AppError {
	switch kind {
	case "policer-action":
		return ds.DispatchPolicerAction(ctx, state, argv)
	case "policer":
		return ds.DispatchPolicer(ctx, state, argv)
	case "queue":
		return ds.DispatchQueue(ctx, state, argv)
	case "interface":
		return ds.DispatchInterface(ctx, state, argv)
	case "port":
		return ds.DispatchPort(ctx, state, argv)
	case "channel":
		return ds.DispatchChannel(ctx, state, argv)
	case "controller":
		return ds.DispatchController(ctx, state, argv)
	case "bridge":
		return ds.DispatchBridge(ctx, state, argv)
	default:
		return apperrors.ErrInvalidArgsf("unknown kind %q", kind)
	}
}
