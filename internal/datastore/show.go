package datastore

import (
	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// kindShow resolves the requested view of a single Conf (spec §4.9): an
// empty view on an existing Conf is NotOperational, not a zero value.
func kindShow[A any](k *Kind[A], name fullname.Fullname, view string) (*A, *apperrors.AppError) {
	conf, ok := k.Store.Find(name)
	if !ok {
		return nil, apperrors.ErrNotFoundf("%s %s not found", k.Name, name.String())
	}
	var a *A
	switch view {
	case "current":
		a = conf.Current
	case "modified":
		a = conf.Modified
	default:
		return nil, apperrors.ErrInvalidArgsf("unknown view %q, want current or modified", view)
	}
	if a == nil {
		return nil, apperrors.ErrNotOperationalf("%s %s has no %s view", k.Name, name.String(), view)
	}
	return a, nil
}

// Conf exposes a Conf's bookkeeping flags alongside its resolved
// attribute value, the payload the show sub-command and the HTTP
// introspection handlers both render.
type Conf struct {
	Kind         string
	Name         string
	View         string
	Attr         any
	IsUsed       bool
	IsEnabled    bool
	IsDestroying bool
}

// Show resolves one Conf's requested view by kind name, for the command
// dispatcher's show sub-command and the read-only HTTP mirror.
func (ds *Datastore) Show(kind string, name fullname.Fullname, view string) (*Conf, *apperrors.AppError) {
	switch kind {
	case "policer-action":
		return showKind(ds.PolicerActions, name, view)
	case "channel":
		return showKind(ds.Channels, name, view)
	case "interface":
		return showKind(ds.Interfaces, name, view)
	case "queue":
		return showKind(ds.Queues, name, view)
	case "policer":
		return showKind(ds.Policers, name, view)
	case "controller":
		return showKind(ds.Controllers, name, view)
	case "port":
		return showKind(ds.Ports, name, view)
	case "bridge":
		return showKind(ds.Bridges, name, view)
	default:
		return nil, apperrors.ErrInvalidArgsf("unknown kind %q", kind)
	}
}

func showKind[A any](k *Kind[A], name fullname.Fullname, view string) (*Conf, *apperrors.AppError) {
	a, err := kindShow(k, name, view)
	if err != nil {
		return nil, err
	}
	conf, _ := k.Store.Find(name)
	return &Conf{
		Kind:         k.Name,
		Name:         name.String(),
		View:         view,
		Attr:         a,
		IsUsed:       conf.IsUsed,
		IsEnabled:    conf.IsEnabled,
		IsDestroying: conf.IsDestroying,
	}, nil
}

// List returns every Conf of a kind under the requested namespace scope
// (nil = all, &"" = default namespace only) for bulk show and the HTTP
// collection endpoints.
func (ds *Datastore) List(kind string, ns *string) ([]*Conf, *apperrors.AppError) {
	switch kind {
	case "policer-action":
		return listKind(ds.PolicerActions, ns), nil
	case "channel":
		return listKind(ds.Channels, ns), nil
	case "interface":
		return listKind(ds.Interfaces, ns), nil
	case "queue":
		return listKind(ds.Queues, ns), nil
	case "policer":
		return listKind(ds.Policers, ns), nil
	case "controller":
		return listKind(ds.Controllers, ns), nil
	case "port":
		return listKind(ds.Ports, ns), nil
	case "bridge":
		return listKind(ds.Bridges, ns), nil
	default:
		return nil, apperrors.ErrInvalidArgsf("unknown kind %q", kind)
	}
}

func listKind[A any](k *Kind[A], ns *string) []*Conf {
	var out []*Conf
	for _, name := range k.Store.List(ns) {
		conf, ok := k.Store.Find(name)
		if !ok {
			continue
		}
		view := conf.Current
		label := "current"
		if view == nil {
			view = conf.Modified
			label = "modified"
		}
		out = append(out, &Conf{
			Kind:         k.Name,
			Name:         conf.Name.String(),
			View:         label,
			Attr:         view,
			IsUsed:       conf.IsUsed,
			IsEnabled:    conf.IsEnabled,
			IsDestroying: conf.IsDestroying,
		})
	}
	return out
}
