package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reviewdeck/reviewdeck/internal/backend/fakeserver"
)

const shutdownGrace = 5 * time.Second

func newFakeServerCommand() *cobra.Command {
	var (
		addr    string
		latency time.Duration
		strict  bool
		quiet   bool
	)
	cmd := &cobra.Command{
		Use:   "fake-server",
		Short: "Run an in-memory review service for demos and local development",
		Long: `fake-server serves the review service API from memory. Crawling an unknown
app ID makes up a deterministic app with a handful of reviews; analysis and
topic modeling are computed locally.`,
		Example: "  reviewdeck fake-server --addr 127.0.0.1:8000 --latency 800ms",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if quiet {
				level = log.WarnLevel
			}
			logger := log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "fake-server",
				Level:           level,
			})

			opts := []fakeserver.Option{fakeserver.WithLogger(logger), fakeserver.WithLatency(latency)}
			if strict {
				opts = append(opts, fakeserver.WithStrictCatalog())
			}
			return serve(cmd.Context(), addr, fakeserver.New(opts...), logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().DurationVar(&latency, "latency", 0, "delay added to every response")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail crawls of unknown app IDs with 502")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not log requests")
	return cmd
}

// serve runs handler on addr until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
