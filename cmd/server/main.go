package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadcrm/backend/internal/auth"
	"leadcrm/backend/internal/config"
	"leadcrm/backend/internal/httpapi"
	"leadcrm/backend/internal/keepalive"
	"leadcrm/backend/internal/logging"
	"leadcrm/backend/internal/store"
	"leadcrm/backend/internal/store/memory"
	"leadcrm/backend/internal/store/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		var err error
		if secret, err = auth.RandomSecret(); err != nil {
			return err
		}
		logger.Warn("JWT_SECRET is not set; using a random key, tokens will not survive a restart")
	}
	issuer := auth.NewIssuer(secret)

	st, closer, err := openStore(rootCtx, cfg, logger)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer()
	}

	if cfg.KeepAliveEnabled {
		pinger := keepalive.NewPinger(cfg.KeepAliveURL, cfg.KeepAliveInterval, logger)
		go pinger.Run(rootCtx)
	}

	srv := httpapi.NewServer(cfg, st, issuer, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr()), zap.String("env", cfg.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case <-stop:
		logger.Info("shutdown requested")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}

	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(ctxShutdown); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	return serveErr
}

// openStore returns the postgres store when DATABASE_URL is set and the
// memory store otherwise.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using memory store")
		return memory.NewStore(), nil, nil
	}

	pg, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.IsProduction(), logger)
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("using postgres store", zap.Bool("dedicated_pool", cfg.IsProduction()))
	return pg, pg.Close, nil
}
