package main

import (
	"context"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"nairaghibli/internal/auth"
	"nairaghibli/internal/backend"
	"nairaghibli/internal/cache"
	"nairaghibli/internal/cli"
	"nairaghibli/internal/config"
	"nairaghibli/internal/dashboard"
	apphttp "nairaghibli/internal/http"
	"nairaghibli/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	be, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err.Error())
		}
	}()

	verifier, err := auth.NewVerifier(cfg.AuthUsername, cfg.AuthPassword, cfg.AuthPasswordHash)
	if err != nil {
		return err
	}

	var (
		sessions auth.SessionStore
		ready    []apphttp.ReadinessCheck
		janitor  *cache.Janitor
	)
	switch cfg.SessionBackend {
	case "redis":
		rs, err := auth.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
		if err != nil {
			return err
		}
		defer rs.Close()
		sessions = rs
		ready = append(ready, apphttp.ReadinessCheck{Name: "redis", Check: rs.Ping})
	default:
		ms := auth.NewMemoryStore(cfg.SessionTTL)
		sessions = ms
		janitor = cache.NewJanitor(time.Minute, ms.Cleaner())
	}

	for _, c := range be.Checks {
		ready = append(ready, apphttp.ReadinessCheck{Name: c.Name, Check: c.Check})
	}
	ready = append(ready, apphttp.ReadinessCheck{Name: "ledger", Check: func(ctx context.Context) error {
		_, err := be.Ledger.SummaryStats(ctx)
		return err
	}})

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Gate:   auth.NewGate(verifier, sessions),
		Ledger: be.Ledger,
		Views:  dashboard.NewBuilder(be.Ledger, logger),
		Logger: logger,
		Ready:  ready,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting nairaghibli server",
		"port", cfg.Port,
		"data_backend", cfg.DataBackend,
		"session_backend", cfg.SessionBackend,
		"mirror_enabled", cfg.MirrorEnabled())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	if janitor != nil {
		g.Go(func() error {
			janitor.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
