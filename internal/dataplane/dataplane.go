// Package dataplane is the anti-corruption layer between the datastore
// engine and the live packet-forwarding plane (spec §6 "dp_* API",
// explicitly out of scope: this package only specifies and mocks the
// interface the engine consumes). Concrete bindings to the DPDK/netlink
// native layer live outside this module; tests and the default wiring use
// the in-memory Mock.
package dataplane

import (
	"context"
	"fmt"
	"sync"
)

// Object is the synchronous native-object lifecycle surface every kind's
// dp_<kind>_* calls present (spec §6): create/destroy the concrete
// resource, start/stop it. name is the object's fullname string; info is
// the kind's current attribute record, opaque to this layer.
type Object interface {
	Create(ctx context.Context, name string, info any) error
	Destroy(ctx context.Context, name string) error
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
}

// Association is the dp_<kind>_<child>_add/_delete (or _set/_unset for
// single-valued references) surface used to wire a child into a parent's
// native object.
type Association interface {
	Add(ctx context.Context, parent, child string) error
	Delete(ctx context.Context, parent, child string) error
}

// Stats is the read-only dp_<kind>_stats_get call. The payload shape is
// kind-specific and left to callers as a map.
type Stats interface {
	Get(ctx context.Context, name string) (map[string]uint64, error)
}

// callRecord captures one invocation for the mock's call-counting test
// support (spec §8 scenario 6: "count mock calls").
type callRecord struct {
	method string
	parent string
	child  string
}

// Mock implements Object, Association, and Stats entirely in memory.
// internal/datastore gives every kind its own Mock, so live/started state
// and call counts are kept per kind.
type Mock struct {
	mu      sync.Mutex
	live    map[string]bool
	started map[string]bool
	calls   []callRecord
	fail    map[string]error
}

// NewMock returns an empty Mock.
func NewMock() *Mock {
	return &Mock{
		live:    make(map[string]bool),
		started: make(map[string]bool),
		fail:    make(map[string]error),
	}
}

// FailNext arranges for the named method ("create", "destroy", "start",
// "stop", "add", "delete") to return err exactly once the next time it is
// invoked for any object.
func (m *Mock) FailNext(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[method] = err
}

func (m *Mock) takeFailure(method string) error {
	err, ok := m.fail[method]
	if !ok {
		return nil
	}
	delete(m.fail, method)
	return err
}

func (m *Mock) record(method, parent, child string) {
	m.calls = append(m.calls, callRecord{method: method, parent: parent, child: child})
}

// CallCount returns how many times method was invoked on this Mock.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func (m *Mock) Create(_ context.Context, name string, _ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("create", name, "")
	if err := m.takeFailure("create"); err != nil {
		return err
	}
	if m.live[name] {
		return fmt.Errorf("dataplane: %s already created", name)
	}
	m.live[name] = true
	return nil
}

func (m *Mock) Destroy(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("destroy", name, "")
	if err := m.takeFailure("destroy"); err != nil {
		return err
	}
	delete(m.live, name)
	delete(m.started, name)
	return nil
}

func (m *Mock) Start(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("start", name, "")
	if err := m.takeFailure("start"); err != nil {
		return err
	}
	if !m.live[name] {
		return fmt.Errorf("dataplane: %s not created", name)
	}
	m.started[name] = true
	return nil
}

func (m *Mock) Stop(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("stop", name, "")
	if err := m.takeFailure("stop"); err != nil {
		return err
	}
	delete(m.started, name)
	return nil
}

func (m *Mock) Add(_ context.Context, parent, child string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("add", parent, child)
	return m.takeFailure("add")
}

func (m *Mock) Delete(_ context.Context, parent, child string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete", parent, child)
	return m.takeFailure("delete")
}

func (m *Mock) Get(_ context.Context, name string) (map[string]uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("stats_get", name, "")
	if err := m.takeFailure("stats_get"); err != nil {
		return nil, err
	}
	return map[string]uint64{"tx_packets": 0, "rx_packets": 0}, nil
}

// IsLive reports whether Create has been called for name without a
// matching Destroy.
func (m *Mock) IsLive(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[name]
}

// IsStarted reports whether Start has been called for name without a
// matching Stop.
func (m *Mock) IsStarted(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started[name]
}
