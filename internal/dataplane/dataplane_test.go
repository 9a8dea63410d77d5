package dataplane

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMock_CreateStartStopDestroy(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	require.NoError(t, m.Create(ctx, "p1", nil))
	require.True(t, m.IsLive("p1"))

	require.NoError(t, m.Start(ctx, "p1"))
	require.True(t, m.IsStarted("p1"))

	require.NoError(t, m.Stop(ctx, "p1"))
	require.False(t, m.IsStarted("p1"))

	require.NoError(t, m.Destroy(ctx, "p1"))
	require.False(t, m.IsLive("p1"))

	require.Equal(t, 1, m.CallCount("create"))
	require.Equal(t, 1, m.CallCount("destroy"))
}

func TestMock_StartBeforeCreateFails(t *testing.T) {
	m := NewMock()
	err := m.Start(context.Background(), "p1")
	require.Error(t, err)
}

func TestMock_FailNextAppliesOnce(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	want := errors.New("native boom")
	m.FailNext("create", want)

	err := m.Create(ctx, "p1", nil)
	require.ErrorIs(t, err, want)

	err = m.Create(ctx, "p2", nil)
	require.NoError(t, err)
}

func TestMock_AddDeleteCallCounting(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "p1", "pa1"))
	require.NoError(t, m.Add(ctx, "p1", "pa2"))
	require.NoError(t, m.Delete(ctx, "p1", "pa1"))

	require.Equal(t, 2, m.CallCount("add"))
	require.Equal(t, 1, m.CallCount("delete"))
	require.Equal(t, 0, m.CallCount("destroy"))
}
