// Package store implements the per-kind object stores (spec §4.2): an
// arena keyed by fullname holding Conf records, plus the process-wide
// init/teardown guard and reference-graph bookkeeping that spec §4.4
// requires. The store is parameterized by the kind's attribute type so one
// implementation serves all eight kinds (spec §9: "arena + index instead
// of raw pointers").
package store

import (
	"sync"

	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// Conf is a managed configuration object (spec §3): the current and
// pending attribute versions plus the lifecycle flags the transaction
// engine drives.
type Conf[A any] struct {
	Name         fullname.Fullname
	Current      *A
	Modified     *A
	IsUsed       bool
	IsEnabled    bool
	IsEnabling   bool
	IsDisabling  bool
	IsDestroying bool
}

// Store is the arena for one object kind.
type Store[A any] struct {
	mu          sync.Mutex
	entries     map[fullname.Fullname]*Conf[A]
	initialized bool
}

// New returns an uninitialized Store; Init must be called before use.
func New[A any]() *Store[A] {
	return &Store[A]{entries: make(map[fullname.Fullname]*Conf[A])}
}

// Init transitions the store into the started state. Idempotent.
func (s *Store[A]) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
}

// Teardown clears all entries and returns the store to NotStarted.
func (s *Store[A]) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[fullname.Fullname]*Conf[A])
	s.initialized = false
}

func (s *Store[A]) checkStarted() *apperrors.AppError {
	if !s.initialized {
		return apperrors.ErrNotStartedf("object store not initialized")
	}
	return nil
}

// Create returns a new, unattached Conf with an empty current attr. The
// caller populates Modified and calls Add.
func (s *Store[A]) Create(name fullname.Fullname) (*Conf[A], *apperrors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStarted(); err != nil {
		return nil, err
	}
	if _, ok := s.entries[name]; ok {
		return nil, apperrors.ErrAlreadyExistsf("%s already exists", name.String())
	}
	return &Conf[A]{Name: name}, nil
}

// Add inserts conf into the store.
func (s *Store[A]) Add(conf *Conf[A]) *apperrors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStarted(); err != nil {
		return err
	}
	if _, ok := s.entries[conf.Name]; ok {
		return apperrors.ErrAlreadyExistsf("%s already exists", conf.Name.String())
	}
	s.entries[conf.Name] = conf
	return nil
}

// Delete removes the Conf named name.
func (s *Store[A]) Delete(name fullname.Fullname) *apperrors.AppError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStarted(); err != nil {
		return err
	}
	if _, ok := s.entries[name]; !ok {
		return apperrors.ErrNotFoundf("%s not found", name.String())
	}
	delete(s.entries, name)
	return nil
}

// Find looks up a Conf by name.
func (s *Store[A]) Find(name fullname.Fullname) (*Conf[A], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.entries[name]
	return c, ok
}

// List returns fullnames, optionally restricted to a namespace. ns == nil
// returns every fullname; ns pointing at "" returns only default-namespace
// names (spec §4.2).
func (s *Store[A]) List(ns *string) []fullname.Fullname {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []fullname.Fullname
	for name := range s.entries {
		if ns != nil && name.Namespace() != *ns {
			continue
		}
		out = append(out, name)
	}
	return out
}

// SetUsed flips the IsUsed flag of the named Conf. A missing child is a
// no-op: spec §4.4 documents that setting is_used on a missing child
// returns NotFound internally but is promoted to Ok by the reference
// graph, so callers never see a failure here.
func (s *Store[A]) SetUsed(name fullname.Fullname, used bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.entries[name]; ok {
		c.IsUsed = used
	}
}

// Duplicate returns a copy of conf named newName. The current attribute is
// cloned with dupAttr, or with dupAttrWithNS when ns is non-nil so its
// references move into namespace *ns; IsEnabled is copied, the modified
// attribute and the other flags are not. The copy is not added to the store.
func (s *Store[A]) Duplicate(
	conf *Conf[A],
	newName fullname.Fullname,
	dupAttr func(*A) *A,
	dupAttrWithNS func(*A, string) *A,
	ns *string,
) (*Conf[A], *apperrors.AppError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkStarted(); err != nil {
		return nil, err
	}
	if _, ok := s.entries[newName]; ok {
		return nil, apperrors.ErrAlreadyExistsf("%s already exists", newName.String())
	}
	dup := &Conf[A]{Name: newName, IsEnabled: conf.IsEnabled}
	if conf.Current != nil {
		if ns != nil {
			dup.Current = dupAttrWithNS(conf.Current, *ns)
		} else {
			dup.Current = dupAttr(conf.Current)
		}
	}
	return dup, nil
}
