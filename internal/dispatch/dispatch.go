// Package dispatch provides the argv-tokenising and option-parsing
// helpers shared by every kind's command entry point (spec §4.5, §4.6).
// Each kind in internal/datastore builds its own sub-command table out of
// these primitives rather than through a generic reflective framework,
// mirroring how the original per-kind *_cmd.c modules each hand-roll their
// option tables over a shared tokeniser.
package dispatch

import (
	"strconv"
	"strings"

	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

// SubCommand is the second argv token (spec §4.6).
type SubCommand string

const (
	Create  SubCommand = "create"
	Config  SubCommand = "config"
	Enable  SubCommand = "enable"
	Disable SubCommand = "disable"
	Destroy SubCommand = "destroy"
	Stats   SubCommand = "stats"
	Current SubCommand = "current"
	Modified SubCommand = "modified"
)

// Request is a tokenised command: `<kind> <fullname> <sub-cmd> [options...]`
// with the kind already consumed by the caller's dispatch table.
type Request struct {
	FullnameStr string
	Sub         SubCommand
	Args        []string
}

// Parse splits argv (excluding the leading kind token) into a Request. It
// does not interpret the sub-command token: "current" and "modified" come
// back as ordinary Sub values, which the per-kind entry points in
// internal/datastore reject as unknown sub-commands; the views are read
// through Datastore.Show instead.
func Parse(argv []string) (Request, *apperrors.AppError) {
	if len(argv) < 2 {
		return Request{}, apperrors.ErrInvalidArgsf("expected <fullname> <sub-cmd> [options...]")
	}
	return Request{
		FullnameStr: argv[0],
		Sub:         SubCommand(argv[1]),
		Args:        argv[2:],
	}, nil
}

// NameOp is the add/remove intent carried by a name-list option's prefix.
type NameOp int

const (
	OpAdd NameOp = iota
	OpRemove
)

// ParseNameRef splits a name-list option value into its add/remove
// operator and bare name (spec §4.5: "+" to add (default), "~" or "-" to
// remove).
func ParseNameRef(raw string) (NameOp, string) {
	if raw == "" {
		return OpAdd, raw
	}
	switch raw[0] {
	case '+':
		return OpAdd, raw[1:]
	case '~', '-':
		return OpRemove, raw[1:]
	default:
		return OpAdd, raw
	}
}

// ParseUint parses raw as an unsigned integer of the given bit width,
// yielding InvalidArgs on malformed input. Range enforcement beyond the
// bit width is left to the attribute setter (spec §4.3).
func ParseUint(raw string, bitSize int) (uint64, *apperrors.AppError) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, apperrors.ErrInvalidArgsf("invalid integer %q", raw)
	}
	if bitSize < 64 && v >= (uint64(1)<<uint(bitSize)) {
		return 0, apperrors.ErrTooLongf("%d exceeds u%d range", v, bitSize)
	}
	return v, nil
}

// OptionTable maps an option spelling (e.g. "-bandwidth-limit") to a
// handler that consumes zero or one argument. A handler is called with
// present=false when `config -opt` is given no value, signalling a
// show-requested read-back rather than a mutation (spec §4.5).
type OptionTable map[string]func(present bool, raw string) *apperrors.AppError

// Apply walks args as "-opt value" pairs (value optional for booleans or
// show-requests) dispatching into table. Unknown options fail InvalidArgs.
func Apply(table OptionTable, args []string) *apperrors.AppError {
	i := 0
	for i < len(args) {
		opt := args[i]
		handler, ok := table[opt]
		if !ok {
			return apperrors.ErrInvalidArgsf("unknown option %q", opt)
		}
		i++
		if i < len(args) && !isOptionFlag(table, args[i]) {
			if err := handler(true, args[i]); err != nil {
				return err
			}
			i++
			continue
		}
		if err := handler(false, ""); err != nil {
			return err
		}
	}
	return nil
}

// isOptionFlag reports whether s names a known option, distinguishing an
// option flag from a value that happens to start with "-" (the name-list
// removal prefix, spec §4.5).
func isOptionFlag(table OptionTable, s string) bool {
	_, ok := table[s]
	return ok
}

// EscapeFullname quotes s if it contains a space, a tab, a double quote or
// a single quote, backslash-escaping embedded double quotes (spec §4.9,
// §6: "escaped when they contain whitespace or quotes").
func EscapeFullname(s string) string {
	if !strings.ContainsAny(s, " \t\"'") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
