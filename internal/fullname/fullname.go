// Package fullname implements the datastore's namespaced object naming
// scheme: "ns/local" strings that identify every configuration object
// (spec §4.1). A bare local name lives in the default namespace "".
package fullname

import (
	"strings"

	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// Delimiter separates namespace from local name.
const Delimiter = "/"

// MaxLength bounds the serialized "ns/local" form. Mirrors the original
// implementation's DATASTORE_FULLNAME_MAX (datastore.c).
const MaxLength = 255

// Fullname is an immutable namespace-qualified object name.
type Fullname struct {
	ns    string
	local string
}

// New builds a Fullname from separate namespace and local parts. An empty
// ns means the default namespace.
func New(ns, local string) (Fullname, error) {
	if local == "" {
		return Fullname{}, apperrors.ErrInvalidArgsf("local name must not be empty")
	}
	if strings.Contains(ns, Delimiter) {
		return Fullname{}, apperrors.ErrInvalidArgsf("namespace %q must not contain %q", ns, Delimiter)
	}
	if strings.Contains(local, Delimiter) {
		return Fullname{}, apperrors.ErrInvalidArgsf("local name %q must not contain %q", local, Delimiter)
	}
	f := Fullname{ns: ns, local: local}
	if len(f.String()) > MaxLength {
		return Fullname{}, apperrors.ErrTooLongf("fullname %q exceeds %d bytes", f.String(), MaxLength)
	}
	return f, nil
}

// Parse splits a "ns/local" or bare "local" string into a Fullname.
func Parse(s string) (Fullname, error) {
	if s == "" {
		return Fullname{}, apperrors.ErrInvalidArgsf("fullname must not be empty")
	}
	if len(s) > MaxLength {
		return Fullname{}, apperrors.ErrTooLongf("fullname %q exceeds %d bytes", s, MaxLength)
	}
	if i := strings.Index(s, Delimiter); i >= 0 {
		ns, local := s[:i], s[i+1:]
		if strings.Contains(local, Delimiter) {
			return Fullname{}, apperrors.ErrInvalidArgsf("fullname %q has more than one %q", s, Delimiter)
		}
		return New(ns, local)
	}
	return New("", s)
}

// MustParse is Parse but panics on error. Reserved for compile-time-known
// literals (tests, defaults).
func MustParse(s string) Fullname {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Namespace returns the namespace part, "" for the default namespace.
func (f Fullname) Namespace() string { return f.ns }

// Local returns the local name part.
func (f Fullname) Local() string { return f.local }

// IsZero reports whether f is the zero value (no local name).
func (f Fullname) IsZero() bool { return f.local == "" }

// String renders "ns/local", or just "local" in the default namespace.
func (f Fullname) String() string {
	if f.ns == "" {
		return f.local
	}
	return f.ns + Delimiter + f.local
}

// WithNamespace returns a copy of f rewritten into namespace ns, keeping the
// local name (spec §4.1 SubstituteNamespace, used by NameList.DuplicateWithNamespace).
func (f Fullname) WithNamespace(ns string) Fullname {
	return Fullname{ns: ns, local: f.local}
}

// Equal reports whether f and other name the same object.
func (f Fullname) Equal(other Fullname) bool {
	return f.ns == other.ns && f.local == other.local
}
