package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "lagopus.io/datastore/internal/pkg/errors"
)

func TestParse(t *testing.T) {
	req, err := Parse([]string{"p1", "create", "-bandwidth-limit", "1501"})
	require.Nil(t, err)
	require.Equal(t, "p1", req.FullnameStr)
	require.Equal(t, Create, req.Sub)
	require.Equal(t, []string{"-bandwidth-limit", "1501"}, req.Args)
}

func TestParse_TooFewArgs(t *testing.T) {
	_, err := Parse([]string{"p1"})
	require.NotNil(t, err)
}

func TestParseNameRef(t *testing.T) {
	op, name := ParseNameRef("+pa1")
	require.Equal(t, OpAdd, op)
	require.Equal(t, "pa1", name)

	op, name = ParseNameRef("~pa1")
	require.Equal(t, OpRemove, op)
	require.Equal(t, "pa1", name)

	op, name = ParseNameRef("pa1")
	require.Equal(t, OpAdd, op)
	require.Equal(t, "pa1", name)
}

func TestParseUint_RangeAndParse(t *testing.T) {
	v, err := ParseUint("100", 8)
	require.Nil(t, err)
	require.EqualValues(t, 100, v)

	_, err = ParseUint("300", 8)
	require.NotNil(t, err)

	_, err = ParseUint("notanumber", 8)
	require.NotNil(t, err)
	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	require.Equal(t, apperrors.CodeInvalidArgs, appErr.Code)
}

func TestApply_UnknownOption(t *testing.T) {
	table := OptionTable{}
	err := Apply(table, []string{"-bogus", "1"})
	require.NotNil(t, err)
}

func TestApply_ValueLookingLikeFlagIsTreatedAsValue(t *testing.T) {
	var got string
	table := OptionTable{
		"-action": func(present bool, raw string) *apperrors.AppError {
			got = raw
			return nil
		},
	}
	err := Apply(table, []string{"-action", "-pa1"})
	require.Nil(t, err)
	require.Equal(t, "-pa1", got)
}

func TestApply_NoValuePresentForShowRequest(t *testing.T) {
	var sawPresent bool
	table := OptionTable{
		"-bandwidth-limit": func(present bool, raw string) *apperrors.AppError {
			sawPresent = present
			return nil
		},
	}
	err := Apply(table, []string{"-bandwidth-limit"})
	require.Nil(t, err)
	require.False(t, sawPresent)
}

func TestEscapeFullname(t *testing.T) {
	require.Equal(t, "plain", EscapeFullname("plain"))
	require.Equal(t, `"has space"`, EscapeFullname("has space"))
	require.Equal(t, `"has \"quote"`, EscapeFullname(`has "quote`))
}
