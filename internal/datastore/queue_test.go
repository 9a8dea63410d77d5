package datastore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/engine"
	"lagopus.io/datastore/internal/pkg/errors"
)

// TestDispatchQueue_RequiresType grounds the original's required-options
// check (original_source/src/datastore/queue_cmd.c): a queue created or
// configured without -type must never settle with QueueTypeUnknown.
func TestDispatchQueue_RequiresType(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()

	err := ds.Dispatch(ctx, engine.AutoCommit, "queue", []string{"q", "create"})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeInvalidArgs, err.Code)

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "queue",
		[]string{"q", "create", "-type", "single-rate"}))

	err = ds.Dispatch(ctx, engine.AutoCommit, "queue",
		[]string{"q", "config", "-committed-burst-size", "100"})
	require.Nil(t, err)
}
