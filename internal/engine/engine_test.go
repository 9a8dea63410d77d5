package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lagopus.io/datastore/internal/dataplane"
	"lagopus.io/datastore/internal/fullname"
	"lagopus.io/datastore/internal/pkg/logger"
	apperrors "lagopus.io/datastore/internal/pkg/errors"
	"lagopus.io/datastore/internal/store"
)

func toAppErr(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	return apperrors.ErrNotOperationalf("%v", err)
}

func init() {
	_ = logger.Init("error", "json")
}

// leafAttr is a minimal attribute type with no children, used to exercise
// the engine in isolation from the real per-kind attr package.
type leafAttr struct {
	value int
}

func leafHooks(mock *dataplane.Mock) Hooks[leafAttr] {
	return Hooks[leafAttr]{
		CreateDefault:      func() *leafAttr { return &leafAttr{} },
		Equals:             func(a, b *leafAttr) bool { return a == b || (a != nil && b != nil && *a == *b) },
		EqualsWithoutNames: func(a, b *leafAttr) bool { return a == b || (a != nil && b != nil && *a == *b) },
		Duplicate: func(a *leafAttr) *leafAttr {
			if a == nil {
				return nil
			}
			dup := *a
			return &dup
		},
		DuplicateWithNamespace: func(a *leafAttr, _ string) *leafAttr {
			if a == nil {
				return nil
			}
			dup := *a
			return &dup
		},
		NativeCreate: func(ctx context.Context, name fullname.Fullname, a *leafAttr) *apperrors.AppError {
			return toAppErr(mock.Create(ctx, name.String(), a))
		},
		NativeDestroy: func(ctx context.Context, name fullname.Fullname) *apperrors.AppError {
			return toAppErr(mock.Destroy(ctx, name.String()))
		},
		NativeStart: func(ctx context.Context, name fullname.Fullname) *apperrors.AppError {
			return toAppErr(mock.Start(ctx, name.String()))
		},
		NativeStop: func(ctx context.Context, name fullname.Fullname) *apperrors.AppError {
			return toAppErr(mock.Stop(ctx, name.String()))
		},
	}
}

func TestEngine_CreateEnableDisableDestroy(t *testing.T) {
	mock := dataplane.NewMock()
	st := store.New[leafAttr]()
	st.Init()
	eng := New[leafAttr]("leaf", st, leafHooks(mock))
	ctx := context.Background()

	name := fullname.MustParse("leaf1")
	conf, err := eng.Create(name)
	require.Nil(t, err)
	conf.Modified.value = 7

	require.Nil(t, eng.Step(ctx, conf, AutoCommit, false))
	require.Equal(t, 7, conf.Current.value)
	require.Nil(t, conf.Modified)
	require.True(t, mock.IsLive("leaf1"))

	conf.IsEnabled = true
	conf.IsUsed = true
	require.Nil(t, eng.Step(ctx, conf, AutoCommit, true))
	require.True(t, mock.IsStarted("leaf1"))

	conf.IsEnabled = false
	require.Nil(t, eng.Step(ctx, conf, AutoCommit, true))
	require.False(t, mock.IsStarted("leaf1"))

	conf.IsUsed = false
	require.Nil(t, eng.Destroy(ctx, conf, AutoCommit))
	require.False(t, mock.IsLive("leaf1"))
	_, ok := st.Find(name)
	require.False(t, ok)
}

func TestEngine_DestroyRefusedWhileUsed(t *testing.T) {
	mock := dataplane.NewMock()
	st := store.New[leafAttr]()
	st.Init()
	eng := New[leafAttr]("leaf", st, leafHooks(mock))
	ctx := context.Background()

	name := fullname.MustParse("leaf1")
	conf, err := eng.Create(name)
	require.Nil(t, err)
	require.Nil(t, eng.Step(ctx, conf, AutoCommit, false))

	conf.IsUsed = true
	destroyErr := eng.Destroy(ctx, conf, AutoCommit)
	require.NotNil(t, destroyErr)
}
