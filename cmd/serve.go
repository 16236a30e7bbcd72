package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/cf-tutor/internal/monitoring"
	"github.com/sells-group/cf-tutor/internal/server"
	"github.com/sells-group/cf-tutor/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tutor HTTP API and frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		metrics := monitoring.NewMetrics()
		env, err := initEnv(ctx, metrics)
		if err != nil {
			return err
		}
		defer env.Close()

		tu, err := buildTutor(ctx, metrics)
		if err != nil {
			return err
		}

		sessions := session.NewManager()
		collector := monitoring.NewCollector(env.Extractor, sessions, env.Breakers)
		checker := monitoring.NewChecker(collector, metrics,
			time.Duration(cfg.Monitoring.CheckIntervalSecs)*time.Second)

		api := server.New(server.Config{
			FrontendDir: cfg.Server.FrontendDir,
			CORSOrigins: cfg.Server.CORSOrigins,
		}, env.Extractor, tu, sessions,
			server.WithMetrics(metrics),
			server.WithCollector(collector),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := newHTTPServer(net.JoinHostPort(cfg.Server.Host, strconv.Itoa(port)), api.Handler())

		ln, err := net.Listen("tcp", srv.Addr)
		if err != nil {
			return eris.Wrap(err, "server listen")
		}

		zap.L().Info("starting server",
			zap.String("addr", ln.Addr().String()),
			zap.Int("problems", env.Extractor.Count()),
		)
		return runServer(ctx, srv, ln, checker, time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
	}
}

// runServer serves on ln and runs the state sampler until ctx is cancelled,
// then drains in-flight requests for at most shutdownTimeout.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener, checker *monitoring.Checker, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server serve")
		}
		return nil
	})

	if checker != nil {
		g.Go(func() error {
			checker.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")

		if shutdownTimeout <= 0 {
			shutdownTimeout = 15 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
	})

	return g.Wait()
}
