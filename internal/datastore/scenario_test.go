package datastore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lagopus.io/datastore/internal/attr"
	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/engine"
	"lagopus.io/datastore/internal/fullname"
	"lagopus.io/datastore/internal/pkg/errors"
	"lagopus.io/datastore/internal/pkg/logger"
)

func init() {
	_ = logger.Init("error", "json")
}

// TestScenario1_CreateEnableDisableDestroyChain grounds spec §8 scenario 1.
func TestScenario1_CreateEnableDisableDestroyChain(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer-action",
		[]string{"pa", "create", "-type", "discard"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer",
		[]string{"p", "create", "-action", "pa", "-bandwidth-limit", "1501", "-burst-size-limit", "1502", "-bandwidth-percent", "1"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "port",
		[]string{"P", "create", "-policer", "p"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer", []string{"p", "enable"}))

	conf, showErr := ds.Show("policer", fullname.MustParse("p"), "current")
	require.Nil(t, showErr)
	require.True(t, conf.IsUsed)
	require.True(t, conf.IsEnabled)
	policer, ok := conf.Attr.(*attr.Policer)
	require.True(t, ok)
	require.Equal(t, uint64(1501), policer.BandwidthLimitBps)

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "port", []string{"P", "destroy"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer", []string{"p", "destroy"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer-action", []string{"pa", "destroy"}))
}

// TestScenario2_EnableWithoutParent grounds spec §8 scenario 2.
func TestScenario2_EnableWithoutParent(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer-action", []string{"pa", "create"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer", []string{"p", "create", "-action", "pa"}))

	err := ds.Dispatch(ctx, engine.AutoCommit, "policer", []string{"p", "enable"})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeNotOperational, err.Code)
	require.Contains(t, err.Message, "p")

	conf, showErr := ds.Show("policer", fullname.MustParse("p"), "current")
	require.Nil(t, showErr)
	require.False(t, conf.IsEnabled)
}

// TestScenario3_DestroyWhileUsed grounds spec §8 scenario 3.
func TestScenario3_DestroyWhileUsed(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer-action", []string{"pa", "create", "-type", "discard"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer",
		[]string{"p", "create", "-action", "pa", "-bandwidth-limit", "1501"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "port", []string{"P", "create", "-policer", "p"}))

	err := ds.Dispatch(ctx, engine.AutoCommit, "policer", []string{"p", "destroy"})
	require.NotNil(t, err)
	require.Equal(t, errors.CodeNotOperational, err.Code)

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "port", []string{"P", "destroy"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer", []string{"p", "destroy"}))
}

func preloadPolicer(t *testing.T, ds *datastore.Datastore, ctx context.Context) {
	t.Helper()
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer-action", []string{"pa", "create", "-type", "discard"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer-action", []string{"pa2", "create", "-type", "discard"}))
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer",
		[]string{"p", "create", "-action", "pa", "-bandwidth-limit", "1501"}))
}

// TestScenario4_AtomicCommit grounds spec §8 scenario 4: edits accumulate in
// modified_attr under ATOMIC and only land in current_attr at Commit.
func TestScenario4_AtomicCommit(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()
	preloadPolicer(t, ds, ctx)

	session := datastore.NewSession()
	atomicCtx := datastore.WithSession(ctx, session)
	require.Nil(t, ds.Dispatch(atomicCtx, engine.Atomic, "policer",
		[]string{"p", "config", "-action", "~pa", "-action", "pa2", "-bandwidth-limit", "1601"}))

	preCommit, err := ds.Show("policer", fullname.MustParse("p"), "current")
	require.Nil(t, err)
	require.Equal(t, uint64(1501), preCommit.Attr.(*attr.Policer).BandwidthLimitBps)

	modified, err := ds.Show("policer", fullname.MustParse("p"), "modified")
	require.Nil(t, err)
	require.Equal(t, uint64(1601), modified.Attr.(*attr.Policer).BandwidthLimitBps)
	require.True(t, modified.Attr.(*attr.Policer).Actions.Contains(fullname.MustParse("pa2")))

	require.Nil(t, session.Commit(ctx))

	current, err := ds.Show("policer", fullname.MustParse("p"), "current")
	require.Nil(t, err)
	require.Equal(t, uint64(1601), current.Attr.(*attr.Policer).BandwidthLimitBps)
	require.True(t, current.Attr.(*attr.Policer).Actions.Contains(fullname.MustParse("pa2")))

	_, err = ds.Show("policer", fullname.MustParse("p"), "modified")
	require.NotNil(t, err)
	require.Equal(t, errors.CodeNotOperational, err.Code)
}

// TestScenario5_AtomicRollback grounds spec §8 scenario 5: ROLLBACKING +
// ROLLBACKED restores the pre-transaction current_attr exactly.
func TestScenario5_AtomicRollback(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()
	preloadPolicer(t, ds, ctx)

	session := datastore.NewSession()
	atomicCtx := datastore.WithSession(ctx, session)
	require.Nil(t, ds.Dispatch(atomicCtx, engine.Atomic, "policer",
		[]string{"p", "config", "-action", "~pa", "-action", "pa2", "-bandwidth-limit", "1601"}))

	require.Nil(t, session.Rollback(ctx))

	current, err := ds.Show("policer", fullname.MustParse("p"), "current")
	require.Nil(t, err)
	require.Equal(t, uint64(1501), current.Attr.(*attr.Policer).BandwidthLimitBps)
	require.True(t, current.Attr.(*attr.Policer).Actions.Contains(fullname.MustParse("pa")))
	require.False(t, current.Attr.(*attr.Policer).Actions.Contains(fullname.MustParse("pa2")))
}

// TestScenario5b_CrossKindAtomicRollback grounds spec §4.7/§4.8's
// propagation contract across kinds: a port and the policer it references
// are each independently edited and recorded in the same ATOMIC session,
// then rolled back. Engine.Update must drive the policer's do_update at
// the port's own ROLLBACKING/ROLLBACKED state, not AUTO_COMMIT, or the
// policer's pending edit would settle (or be discarded) ahead of its own
// recorded step and leave current_attr corrupted after rollback.
func TestScenario5b_CrossKindAtomicRollback(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()
	preloadPolicer(t, ds, ctx)
	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "port",
		[]string{"P", "create", "-port-number", "1", "-policer", "p"}))

	session := datastore.NewSession()
	atomicCtx := datastore.WithSession(ctx, session)

	require.Nil(t, ds.Dispatch(atomicCtx, engine.Atomic, "port",
		[]string{"P", "config", "-port-number", "2"}))
	require.Nil(t, ds.Dispatch(atomicCtx, engine.Atomic, "policer",
		[]string{"p", "config", "-action", "~pa", "-action", "pa2", "-bandwidth-limit", "1601"}))

	require.Nil(t, session.Rollback(ctx))

	port, err := ds.Show("port", fullname.MustParse("P"), "current")
	require.Nil(t, err)
	require.Equal(t, uint32(1), port.Attr.(*attr.Port).PortNumber)

	policer, err := ds.Show("policer", fullname.MustParse("p"), "current")
	require.Nil(t, err)
	require.Equal(t, uint64(1501), policer.Attr.(*attr.Policer).BandwidthLimitBps)
	require.True(t, policer.Attr.(*attr.Policer).Actions.Contains(fullname.MustParse("pa")))
	require.False(t, policer.Attr.(*attr.Policer).Actions.Contains(fullname.MustParse("pa2")))
	require.True(t, policer.IsUsed)
	require.False(t, policer.IsDestroying)
}

// TestScenario6_StructuralVsReferenceOnlyModification grounds spec §8
// scenario 6: a reference-only change drives add/delete, never a native
// destroy+create.
func TestScenario6_StructuralVsReferenceOnlyModification(t *testing.T) {
	ds := datastore.New()
	ctx := context.Background()
	preloadPolicer(t, ds, ctx)

	destroyBefore := ds.Policers.Mock.CallCount("destroy")
	addBefore := ds.Policers.Mock.CallCount("add")

	require.Nil(t, ds.Dispatch(ctx, engine.AutoCommit, "policer",
		[]string{"p", "config", "-action", "~pa", "-action", "pa2"}))

	require.Equal(t, destroyBefore, ds.Policers.Mock.CallCount("destroy"))
	require.Greater(t, ds.Policers.Mock.CallCount("add"), addBefore)
}
