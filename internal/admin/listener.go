// Package admin serves the textual command surface (spec §5, §6): one
// connection reads newline-delimited requests and writes back a single
// result line per command, exactly the interpreter's single-threaded
// cooperative model requires — every create/config/enable/disable/destroy
// line and every commit/rollback/abort is serialized through the dispatch
// worker pool before the next line is read; begin, show and list are
// answered directly on the connection's goroutine.
//
// Per-connection grammar:
//
//	<kind> <fullname> create|config|enable|disable|destroy [options...]
//	dryrun <kind> <fullname> create|config|enable|disable|destroy [options...]
//	show <kind> <fullname> [current|modified]
//	list <kind> [ns]
//	begin                 (opens an ATOMIC transaction for this connection)
//	commit | rollback | abort  (closes it)
package admin

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"

	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/engine"
	"lagopus.io/datastore/internal/fullname"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
	"lagopus.io/datastore/internal/pkg/logger"
	"lagopus.io/datastore/internal/pkg/worker"
)

// Listener accepts admin connections over a unix socket or TCP address.
type Listener struct {
	ds    *datastore.Datastore
	pool  *worker.Pool
	inner net.Listener
}

// New wraps an already-bound net.Listener. Callers choose unix vs tcp
// based on AdminConfig.SocketPath / TCPAddr.
func New(inner net.Listener, ds *datastore.Datastore, dispatchPool *worker.Pool) *Listener {
	return &Listener{ds: ds, pool: dispatchPool, inner: inner}
}

// Serve accepts connections until ctx is cancelled or Close is called.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = l.inner.Close()
	}()

	for {
		conn, err := l.inner.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go l.handleConn(ctx, conn)
	}
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.inner.Close()
}

func (l *Listener) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	var session *datastore.Session
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		result := l.dispatch(ctx, line, &session)
		if _, err := conn.Write([]byte(result + "\n")); err != nil {
			logger.Warn("admin connection write failed", zap.Error(err))
			return
		}
	}
}

// dispatch routes one command line. Lines that can reach do_update (the
// per-kind commands and commit/rollback/abort) are submitted to the
// single-slot dispatch pool and waited on, preserving the
// one-command-at-a-time invariant (spec §5) across concurrently-accepted
// connections. sessionPtr tracks
// this connection's open ATOMIC transaction, if any, across lines.
func (l *Listener) dispatch(ctx context.Context, line string, sessionPtr **datastore.Session) string {
	argv := strings.Fields(line)
	if len(argv) == 0 {
		return formatResult(apperrors.ErrInvalidArgsf("empty command"))
	}

	switch strings.ToLower(argv[0]) {
	case "begin":
		if *sessionPtr != nil {
			return formatResult(apperrors.ErrAlreadyExistsf("transaction already open on this connection"))
		}
		*sessionPtr = datastore.NewSession()
		return "OK"
	case "commit":
		return l.finishSession(ctx, sessionPtr, (*datastore.Session).Commit)
	case "rollback":
		return l.finishSession(ctx, sessionPtr, (*datastore.Session).Rollback)
	case "abort":
		return l.finishSession(ctx, sessionPtr, (*datastore.Session).Abort)
	case "show":
		return l.show(argv[1:])
	case "list":
		return l.list(argv[1:])
	case "dryrun":
		return l.runCommand(ctx, argv[1:], engine.Dryrun, nil)
	default:
		return l.runCommand(ctx, argv, engine.AutoCommit, *sessionPtr)
	}
}

func (l *Listener) finishSession(ctx context.Context, sessionPtr **datastore.Session, finalize func(*datastore.Session, context.Context) *apperrors.AppError) string {
	s := *sessionPtr
	if s == nil {
		return formatResult(apperrors.ErrNotOperationalf("no transaction open on this connection"))
	}
	*sessionPtr = nil

	done := make(chan *apperrors.AppError, 1)
	if err := l.pool.Submit(ctx, func(ctx context.Context) {
		done <- finalize(s, ctx)
	}); err != nil {
		return formatResult(apperrors.ErrNotStartedf("dispatch pool unavailable: %v", err))
	}

	select {
	case err := <-done:
		return formatResult(err)
	case <-ctx.Done():
		return formatResult(apperrors.ErrNotStartedf("server shutting down"))
	}
}

// runCommand submits one create/config/enable/disable/destroy line to the
// single-slot dispatch pool. When session is non-nil the command runs at
// ATOMIC and records into it instead of touching the data plane.
func (l *Listener) runCommand(ctx context.Context, argv []string, state engine.State, session *datastore.Session) string {
	if len(argv) < 2 {
		return formatResult(apperrors.ErrInvalidArgsf("need at least <kind> <fullname>"))
	}
	kind := argv[0]
	cmdArgv := argv[1:]
	if session != nil {
		ctx = datastore.WithSession(ctx, session)
		state = engine.Atomic
	}

	done := make(chan *apperrors.AppError, 1)
	if err := l.pool.Submit(ctx, func(ctx context.Context) {
		done <- l.ds.Dispatch(ctx, state, kind, cmdArgv)
	}); err != nil {
		return formatResult(apperrors.ErrNotStartedf("dispatch pool unavailable: %v", err))
	}

	select {
	case err := <-done:
		return formatResult(err)
	case <-ctx.Done():
		return formatResult(apperrors.ErrNotStartedf("server shutting down"))
	}
}

func (l *Listener) show(argv []string) string {
	if len(argv) < 2 {
		return formatResult(apperrors.ErrInvalidArgsf("usage: show <kind> <fullname> [current|modified]"))
	}
	name, ferr := fullname.Parse(argv[1])
	if ferr != nil {
		appErr, _ := apperrors.IsAppError(ferr)
		return formatResult(appErr)
	}
	view := "current"
	if len(argv) >= 3 {
		view = argv[2]
	}
	conf, err := l.ds.Show(argv[0], name, view)
	if err != nil {
		return formatResult(err)
	}
	return fmt.Sprintf("OK %s %s used=%t enabled=%t destroying=%t attr=%+v",
		conf.Kind, conf.Name, conf.IsUsed, conf.IsEnabled, conf.IsDestroying, conf.Attr)
}

func (l *Listener) list(argv []string) string {
	if len(argv) < 1 {
		return formatResult(apperrors.ErrInvalidArgsf("usage: list <kind> [ns]"))
	}
	var ns *string
	if len(argv) >= 2 {
		ns = &argv[1]
	}
	confs, err := l.ds.List(argv[0], ns)
	if err != nil {
		return formatResult(err)
	}
	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	return "OK " + strings.Join(names, ",")
}

func formatResult(err *apperrors.AppError) string {
	if err == nil {
		return "OK"
	}
	return err.Code + " " + err.Message
}
