package fullname

import (
	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// NameList is an insertion-ordered set of Fullnames: order is preserved for
// display (show/serialize), but membership and equality are set semantics
// (spec §4.1). The original implementation backs this with a TAILQ
// (datastore.c); a slice plus an index map gives the same ordered-set
// behavior in Go.
type NameList struct {
	order []Fullname
	index map[Fullname]int
}

// NewNameList returns an empty NameList.
func NewNameList() *NameList {
	return &NameList{index: make(map[Fullname]int)}
}

// NameListOf builds a NameList from the given names, in order, rejecting
// duplicates.
func NameListOf(names ...Fullname) (*NameList, error) {
	l := NewNameList()
	for _, n := range names {
		if err := l.Add(n); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Size returns the number of distinct names.
func (l *NameList) Size() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

// Contains reports whether name is a member.
func (l *NameList) Contains(name Fullname) bool {
	if l == nil {
		return false
	}
	_, ok := l.index[name]
	return ok
}

// Add inserts name at the end of the order. AlreadyExists if name is
// already a member.
func (l *NameList) Add(name Fullname) *apperrors.AppError {
	if l.Contains(name) {
		return apperrors.ErrAlreadyExistsf("name %q already in list", name.String())
	}
	l.index[name] = len(l.order)
	l.order = append(l.order, name)
	return nil
}

// Remove deletes name from the list. NotFound if it is not a member.
func (l *NameList) Remove(name Fullname) *apperrors.AppError {
	i, ok := l.index[name]
	if !ok {
		return apperrors.ErrNotFoundf("name %q not in list", name.String())
	}
	l.order = append(l.order[:i], l.order[i+1:]...)
	delete(l.index, name)
	for j := i; j < len(l.order); j++ {
		l.index[l.order[j]] = j
	}
	return nil
}

// Iter returns the members in insertion order. The returned slice must not
// be mutated by the caller.
func (l *NameList) Iter() []Fullname {
	if l == nil {
		return nil
	}
	return l.order
}

// Duplicate returns a deep copy preserving order.
func (l *NameList) Duplicate() *NameList {
	if l == nil {
		return NewNameList()
	}
	dup := NewNameList()
	for _, n := range l.order {
		_ = dup.Add(n)
	}
	return dup
}

// DuplicateWithNamespace returns a deep copy with every member rewritten
// into namespace ns.
func (l *NameList) DuplicateWithNamespace(ns string) *NameList {
	if l == nil {
		return NewNameList()
	}
	dup := NewNameList()
	for _, n := range l.order {
		_ = dup.Add(n.WithNamespace(ns))
	}
	return dup
}

// Equal reports set-equality: same members, order irrelevant (spec §4.1).
func (l *NameList) Equal(other *NameList) bool {
	if l.Size() != other.Size() {
		return false
	}
	for _, n := range l.Iter() {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// Diff partitions the receiver (treated as the "current" list) against
// other (the "modified" list) into names present in both (notChanged),
// present only in other (added), and present only in the receiver
// (removed). Each slice preserves the source list's insertion order. This
// backs the propagation ordering of spec §4.8.
func (l *NameList) Diff(other *NameList) (notChanged, added, removed []Fullname) {
	for _, n := range l.Iter() {
		if other.Contains(n) {
			notChanged = append(notChanged, n)
		} else {
			removed = append(removed, n)
		}
	}
	for _, n := range other.Iter() {
		if !l.Contains(n) {
			added = append(added, n)
		}
	}
	return notChanged, added, removed
}
