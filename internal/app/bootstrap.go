// Package app wires the datastore's components together: the eight-kind
// Datastore, the dispatch/propagation worker pools, the admin textual
// listener, and the read-only HTTP introspection router.
package app

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"

	"lagopus.io/datastore/internal/admin"
	"lagopus.io/datastore/internal/api/handlers"
	"lagopus.io/datastore/internal/config"
	"lagopus.io/datastore/internal/datastore"
	"lagopus.io/datastore/internal/pkg/logger"
	"lagopus.io/datastore/internal/pkg/worker"
)

// App bundles every long-lived component Bootstrap constructs.
type App struct {
	Datastore *datastore.Datastore
	Pools     *worker.Pools
	Router    *handlers.Router
	admin     *admin.Listener
}

// Bootstrap constructs the datastore, worker pools, admin listener, and
// HTTP router from cfg. It does not start accepting connections; call
// Start for that.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	ds := datastore.New()

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		DispatchPoolSize:    cfg.Worker.DispatchPoolSize,
		PropagationPoolSize: cfg.Worker.PropagationPoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create worker pools: %w", err)
	}

	inner, err := adminListen(cfg.Admin)
	if err != nil {
		pools.Shutdown()
		return nil, fmt.Errorf("bind admin listener: %w", err)
	}

	return &App{
		Datastore: ds,
		Pools:     pools,
		Router:    handlers.NewRouter(ds),
		admin:     admin.New(inner, ds, pools.Dispatch),
	}, nil
}

func adminListen(cfg config.AdminConfig) (net.Listener, error) {
	if cfg.SocketPath != "" {
		return net.Listen("unix", cfg.SocketPath)
	}
	return net.Listen("tcp", cfg.TCPAddr)
}

// Start begins accepting admin connections in the background.
func (a *App) Start(ctx context.Context) error {
	go func() {
		if err := a.admin.Serve(ctx); err != nil {
			logger.Error("admin listener stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown releases every component Bootstrap created.
func (a *App) Shutdown() {
	_ = a.admin.Close()
	a.Pools.Shutdown()
}
