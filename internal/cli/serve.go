package cli

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/softcopyright/internal/adapters/http/stub"
	"github.com/okian/softcopyright/internal/adapters/repository"
	"github.com/okian/softcopyright/pkg/logger"
)

// HTTP server timeouts of the stub backend. Writes stay open long enough
// for slow generation streams.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 5 * time.Minute
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func serveStubCommand(e *env) *cobra.Command {
	var (
		addr    string
		prefix  string
		delay   time.Duration
		workers int
	)
	cmd := &cobra.Command{
		Use:   "serve-stub",
		Short: "Serve an in-memory fake of the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = e.cfg.StubAddr
			}
			if !cmd.Flags().Changed("prefix") {
				prefix = basePath(e.cfg.BaseURL)
			}
			backend := stub.NewServer(repository.NewMemoryStore(),
				stub.WithLogger(e.log.Named("stub")),
				stub.WithStreamDelay(delay),
				stub.WithPathPrefix(prefix),
				stub.WithWorkers(workers),
			)
			return serve(ctx, e.log, backend, &http.Server{
				Addr:              addr,
				Handler:           backend.Handler(ctx),
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}, prefix)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; defaults to stub_addr")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Path prefix of the JSON routes; defaults to the path of --base-url")
	cmd.Flags().DurationVar(&delay, "delay", 0, "Pause between streamed frames and project steps")
	cmd.Flags().IntVar(&workers, "workers", 2, "Projects generated at once")
	return cmd
}

// basePath returns the path part of raw without a trailing slash.
func basePath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully and
// lets the backend finish queued projects.
func serve(ctx context.Context, log logger.Logger, backend *stub.Server, srv *http.Server, prefix string) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting stub backend", logger.String("addr", srv.Addr), logger.String("prefix", prefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down stub backend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "stub shutdown failed", logger.Error(err))
		return err
	}
	if err := backend.Close(shutdownCtx); err != nil {
		log.Error(ctx, "stub workers did not stop", logger.Error(err))
		return err
	}
	log.Info(ctx, "stub backend stopped")
	return nil
}
