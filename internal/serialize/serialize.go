// Package serialize renders a Conf's current attribute value back into
// the textual create + options grammar the command surface accepts (spec
// §4.9, §6 "persisted state... using the canonical form emitted by the
// serialize operation"), quoting the object name and every option value
// through dispatch.EscapeFullname.
package serialize

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"lagopus.io/datastore/internal/attr"
	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/dispatch"
	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// line builds one "kind fullname create -opt val ..." statement, quoting
// every value through dispatch.EscapeFullname.
type line struct {
	kind, name string
	opts       []string
}

func (l *line) opt(key, value string) {
	l.opts = append(l.opts, "-"+key, dispatch.EscapeFullname(value))
}

func (l *line) optNames(key string, names *fullname.NameList) {
	if names == nil {
		return
	}
	for _, n := range names.Iter() {
		l.opts = append(l.opts, "-"+key, dispatch.EscapeFullname(n.String()))
	}
}

func (l *line) String() string {
	parts := append([]string{l.kind, dispatch.EscapeFullname(l.name), "create"}, l.opts...)
	return strings.Join(parts, " ")
}

// Conf renders one Conf's current_attr. A Conf with no current_attr is a
// no-op (spec §4.9).
func Conf(kind, name string, a any) (string, *apperrors.AppError) {
	if a == nil {
		return "", nil
	}
	if rv := reflect.ValueOf(a); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return "", nil
	}
	l := &line{kind: kind, name: name}
	switch v := a.(type) {
	case *attr.PolicerAction:
		l.opt("type", string(v.Type()))
	case *attr.Policer:
		l.optNames("action", v.Actions)
		l.opt("bandwidth-limit", strconv.FormatUint(v.BandwidthLimitBps, 10))
		l.opt("burst-size-limit", strconv.FormatUint(v.BurstSizeLimit, 10))
		l.opt("bandwidth-percent", strconv.Itoa(int(v.BandwidthPercent)))
	case *attr.Queue:
		l.opt("type", string(v.Type))
		l.opt("id", strconv.FormatUint(uint64(v.ID), 10))
		l.opt("priority", strconv.FormatUint(uint64(v.Priority), 10))
		l.opt("color", string(v.Color))
		l.opt("committed-burst-size", strconv.FormatUint(v.CommittedBurstSize, 10))
		l.opt("committed-information-rate", strconv.FormatUint(v.CommittedInformationRate, 10))
		if v.Type == attr.QueueTypeSingleRate {
			l.opt("excess-burst-size", strconv.FormatUint(v.ExcessBurstSize, 10))
		}
		if v.Type == attr.QueueTypeTwoRate {
			l.opt("peak-burst-size", strconv.FormatUint(v.PeakBurstSize, 10))
			l.opt("peak-information-rate", strconv.FormatUint(v.PeakInformationRate, 10))
		}
	case *attr.Interface:
		l.opt("type", string(v.Type))
		l.opt("device", v.Device)
	case *attr.Channel:
		l.opt("dst-addr", v.DstAddr)
		l.opt("dst-port", strconv.FormatUint(uint64(v.DstPort), 10))
		l.opt("protocol", string(v.Protocol))
	case *attr.Controller:
		l.optNames("channel", v.Channel)
		l.opt("role", string(v.Role))
	case *attr.Port:
		l.opt("port-number", strconv.FormatUint(uint64(v.PortNumber), 10))
		l.optNames("interface", v.Interface)
		l.optNames("policer", v.Policer)
		l.optNames("queue", v.Queues)
	case *attr.Bridge:
		l.optNames("controller", v.Controllers)
		l.optNames("port", v.Ports)
		l.opt("fail-mode", string(v.FailMode))
		l.opt("flow-stat-avg", strconv.FormatBool(v.FlowStatAvg))
	default:
		return "", apperrors.ErrInvalidArgsf("serialize: unsupported attribute type %T", a)
	}
	return l.String(), nil
}

// kindOrder is the dependency order leaves-first, matching the
// persistence ordering spec §6 requires ("children first").
var kindOrder = []string{
	"policer-action", "channel", "interface", "queue",
	"policer", "controller", "port", "bridge",
}

// Dump serialises every Conf across all kinds in dependency order,
// skipping Confs with no current_attr.
func Dump(ds *datastore.Datastore) (string, *apperrors.AppError) {
	var b strings.Builder
	for _, kind := range kindOrder {
		confs, err := ds.List(kind, nil)
		if err != nil {
			return "", err
		}
		for _, c := range confs {
			if c.View != "current" {
				continue
			}
			l, err := Conf(c.Kind, c.Name, c.Attr)
			if err != nil {
				return "", err
			}
			if l == "" {
				continue
			}
			fmt.Fprintln(&b, l)
		}
	}
	return b.String(), nil
}
