package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	api "github.com/classhour/examd/internal/api/http"
	"github.com/classhour/examd/internal/config"
	"github.com/classhour/examd/internal/db"
	"github.com/classhour/examd/internal/exam"
	"github.com/classhour/examd/pkg/logger"
	"github.com/classhour/examd/pkg/monitoring"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "examd",
		Short: "Timed multi-part exam server",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam server",
		RunE:  runServe,
	}
	cmd.Flags().StringP("config", "c", "", "Path to config file (default: ./examd.yaml if present)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Error("db open failed", zap.Error(err))
		return err
	}
	defer dbh.Close()

	store := exam.NewSQLStore(dbh, cfg.DBDriver)
	svc := exam.NewService(store, exam.WithLogger(log))

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.MetricsEnabled {
		monitoring.Init()
		r.Use(monitoring.Middleware())
		r.Handle("/metrics", monitoring.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	api.Mount(r, svc)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	stop, stopCancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopCancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("db_driver", cfg.DBDriver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			return err
		}
	case <-stop.Done():
		log.Info("shutting down")
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
			return err
		}
	}
	return nil
}
