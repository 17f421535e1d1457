package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"corporate-checkout/internal/logx"
)

const shutdownTimeout = 15 * time.Second

// MustRun starts the HTTP servers using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

type serversIn struct {
	dig.In

	Ctx    context.Context
	Logger logx.Logger
	Main   *http.Server
	Pprof  *http.Server `name:"pprof_server" optional:"true"`
}

func run(container *dig.Container) error {
	return container.Invoke(func(in serversIn) error {
		return serve(in.Ctx, in.Logger, shutdownTimeout, in.Main, in.Pprof)
	})
}

// serve runs every non-nil server until ctx is done or one of them fails,
// then shuts all of them down.
func serve(ctx context.Context, logger logx.Logger, timeout time.Duration, servers ...*http.Server) error {
	var active []*http.Server
	for _, srv := range servers {
		if srv != nil {
			active = append(active, srv)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range active {
		g.Go(func() error {
			logger.Info("service-checkout listening", logx.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down service-checkout")
		return shutdown(logger, timeout, active)
	})
	return g.Wait()
}

func shutdown(logger logx.Logger, timeout time.Duration, servers []*http.Server) error {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(shCtx); err != nil {
			logger.Error("graceful shutdown error", logx.String("addr", srv.Addr), logx.Err(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
