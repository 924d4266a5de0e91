package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"resumerank/internal/api"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.decoders()
			if err != nil {
				return err
			}
			sc := a.cfg.Server
			handler := api.NewHandler(a.logger, a.rankingService(a.snapshotStore()), reg, int64(sc.MaxUploadMB)<<20)
			srv := &http.Server{
				Addr: sc.Addr,
				Handler: api.NewServer(a.logger, handler, api.Options{
					RateLimitRPS:   sc.RateLimitRPS,
					RateLimitBurst: sc.RateLimitBurst,
					RequestTimeout: time.Duration(sc.RequestTimeoutSecs) * time.Second,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", "addr", sc.Addr, "snapshot", a.cfg.Snapshot.Enabled)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			a.logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
