// Package worker provides goroutine pool management for the datastore.
//
// Command execution goes through the single-slot Dispatch pool with context
// propagation; the admin listener's accept and per-connection loops run on
// goroutines of their own.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"lagopus.io/datastore/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// Task is a context-aware task function.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission.
type Pool struct {
	pool *ants.Pool
	name string
}

// Pools is the datastore's worker pool collection.
//
// Dispatch has capacity 1: the command surface is single-threaded
// cooperative (spec §5) — every admitted textual command is serialized
// through this single slot so at most one do_update call runs at a time.
// Propagate is created with PropagationPoolSize workers and reported by
// Metrics, but nothing submits to it: the engine propagates enable/
// disable/update calls to a parent's not_changed/added/removed child sets
// one after another inside do_update, on the dispatch worker.
type Pools struct {
	Dispatch  *Pool
	Propagate *Pool

	serviceCtx    context.Context
	serviceCancel context.CancelFunc
}

// PoolConfig contains Worker Pool configuration.
type PoolConfig struct {
	DispatchPoolSize    int
	PropagationPoolSize int
}

// DefaultPoolConfig returns default configuration.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		DispatchPoolSize:    1,
		PropagationPoolSize: 4,
	}
}

// NewPools creates the datastore's worker pool collection.
func NewPools(ctx context.Context, cfg PoolConfig) (*Pools, error) {
	serviceCtx, serviceCancel := context.WithCancel(ctx)

	panicHandler := func(p interface{}) {
		logger.Error("Worker panic recovered",
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}

	dispatchAnts, err := ants.NewPool(cfg.DispatchPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		serviceCancel()
		return nil, err
	}

	propagateAnts, err := ants.NewPool(cfg.PropagationPoolSize,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		dispatchAnts.Release()
		serviceCancel()
		return nil, err
	}

	return &Pools{
		Dispatch:      &Pool{pool: dispatchAnts, name: "dispatch"},
		Propagate:     &Pool{pool: propagateAnts, name: "propagate"},
		serviceCtx:    serviceCtx,
		serviceCancel: serviceCancel,
	}, nil
}

// Submit submits a context-aware task and blocks until it is accepted.
// The task receives the caller's context and should check ctx.Done() at
// blocking points.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return p.pool.Submit(func() {
		select {
		case <-ctx.Done():
			logger.Debug("Task skipped: context cancelled",
				zap.String("pool", p.name),
				zap.Error(ctx.Err()),
			)
			return
		default:
		}
		task(ctx)
	})
}

// Shutdown gracefully shuts down all pools with a timeout.
func (p *Pools) Shutdown() {
	p.serviceCancel()

	const shutdownTimeout = 30 * time.Second
	if err := p.Dispatch.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("Dispatch pool shutdown timeout", zap.Error(err))
	}
	if err := p.Propagate.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("Propagate pool shutdown timeout", zap.Error(err))
	}
}

// Metrics returns pool metrics for observability.
func (p *Pools) Metrics() map[string]interface{} {
	return map[string]interface{}{
		"dispatch": map[string]int{
			"running": p.Dispatch.pool.Running(),
			"free":    p.Dispatch.pool.Free(),
			"cap":     p.Dispatch.pool.Cap(),
		},
		"propagate": map[string]int{
			"running": p.Propagate.pool.Running(),
			"free":    p.Propagate.pool.Free(),
			"cap":     p.Propagate.pool.Cap(),
		},
	}
}
