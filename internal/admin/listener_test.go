package admin_test

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lagopus.io/datastore/internal/admin"
	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/pkg/logger"
	"lagopus.io/datastore/internal/pkg/worker"
)

func init() {
	_ = logger.Init("error", "json")
}

func newTestListener(t *testing.T) (net.Conn, context.CancelFunc) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	pools, err := worker.NewPools(ctx, worker.DefaultPoolConfig())
	require.NoError(t, err)
	t.Cleanup(pools.Shutdown)

	l := admin.New(ln, datastore.New(), pools.Dispatch)
	go func() { _ = l.Serve(ctx) }()
	t.Cleanup(func() { _ = l.Close() })

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, cancel
}

func sendLine(t *testing.T, conn net.Conn, reader *bufio.Reader, line string) string {
	t.Helper()
	require.NoError(t, conn.SetDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Write([]byte(line + "\n"))
	require.NoError(t, err)
	reply, err := reader.ReadString('\n')
	require.NoError(t, err)
	return reply[:len(reply)-1]
}

func TestListener_CreateEnableShowDestroy(t *testing.T) {
	conn, cancel := newTestListener(t)
	defer cancel()
	r := bufio.NewReader(conn)

	require.Equal(t, "OK", sendLine(t, conn, r, "policer-action pa create -type discard"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer p create -action pa -bandwidth-limit 1501"))
	require.Equal(t, "OK", sendLine(t, conn, r, "port P create -policer p"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer p enable"))

	reply := sendLine(t, conn, r, "show policer p current")
	require.Contains(t, reply, "used=true")
	require.Contains(t, reply, "enabled=true")

	require.Equal(t, "OK", sendLine(t, conn, r, "port P destroy"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer p destroy"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer-action pa destroy"))
}

func TestListener_AtomicCommitAcrossLines(t *testing.T) {
	conn, cancel := newTestListener(t)
	defer cancel()
	r := bufio.NewReader(conn)

	require.Equal(t, "OK", sendLine(t, conn, r, "policer-action pa create -type discard"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer-action pa2 create -type discard"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer p create -action pa -bandwidth-limit 1501"))

	require.Equal(t, "OK", sendLine(t, conn, r, "begin"))
	require.Equal(t, "OK", sendLine(t, conn, r, "policer p config -action ~pa -action pa2 -bandwidth-limit 1601"))
	require.Equal(t, "OK", sendLine(t, conn, r, "commit"))

	reply := sendLine(t, conn, r, "show policer p current")
	require.Contains(t, reply, "1601")
}

func TestListener_BeginTwiceFails(t *testing.T) {
	conn, cancel := newTestListener(t)
	defer cancel()
	r := bufio.NewReader(conn)

	require.Equal(t, "OK", sendLine(t, conn, r, "begin"))
	reply := sendLine(t, conn, r, "begin")
	require.Contains(t, reply, "ALREADY_EXISTS")
	require.Equal(t, "OK", sendLine(t, conn, r, "abort"))
}

func TestListener_CommitWithoutBeginIsNotOperational(t *testing.T) {
	conn, cancel := newTestListener(t)
	defer cancel()
	r := bufio.NewReader(conn)

	reply := sendLine(t, conn, r, "commit")
	require.Contains(t, reply, "NOT_OPERATIONAL")
}
