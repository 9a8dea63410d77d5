package fullname

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

func TestNameList_AddContainsRemove(t *testing.T) {
	l := NewNameList()
	p1 := MustParse("p1")
	p2 := MustParse("p2")

	require.Nil(t, l.Add(p1))
	require.True(t, l.Contains(p1))
	require.Equal(t, 1, l.Size())

	err := l.Add(p1)
	require.Error(t, err)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)

	require.Nil(t, l.Add(p2))
	require.Equal(t, []Fullname{p1, p2}, l.Iter())

	require.Nil(t, l.Remove(p1))
	require.False(t, l.Contains(p1))
	require.Equal(t, []Fullname{p2}, l.Iter())

	err = l.Remove(p1)
	require.Error(t, err)
	appErr, ok = apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestNameList_EqualIsSetSemantics(t *testing.T) {
	a, err := NameListOf(MustParse("p1"), MustParse("p2"))
	require.NoError(t, err)
	b, err := NameListOf(MustParse("p2"), MustParse("p1"))
	require.NoError(t, err)

	require.True(t, a.Equal(b), "order must not affect equality")
}

func TestNameList_Diff(t *testing.T) {
	cur, err := NameListOf(MustParse("p1"), MustParse("p2"))
	require.NoError(t, err)
	mod, err := NameListOf(MustParse("p2"), MustParse("p3"))
	require.NoError(t, err)

	notChanged, added, removed := cur.Diff(mod)
	require.Equal(t, []Fullname{MustParse("p2")}, notChanged)
	require.Equal(t, []Fullname{MustParse("p3")}, added)
	require.Equal(t, []Fullname{MustParse("p1")}, removed)
}

func TestNameList_DuplicateWithNamespace(t *testing.T) {
	l, err := NameListOf(MustParse("ns0/p1"), MustParse("ns0/p2"))
	require.NoError(t, err)

	dup := l.DuplicateWithNamespace("ns1")
	require.Equal(t, []Fullname{MustParse("ns1/p1"), MustParse("ns1/p2")}, dup.Iter())
	require.Equal(t, []Fullname{MustParse("ns0/p1"), MustParse("ns0/p2")}, l.Iter(), "original must be unchanged")
}

func TestNameList_NilReceiverIsEmpty(t *testing.T) {
	var l *NameList
	require.Equal(t, 0, l.Size())
	require.False(t, l.Contains(MustParse("p1")))
	require.Nil(t, l.Iter())
}
