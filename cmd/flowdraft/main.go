package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/davrenn/flowdraft/internal/auth"
	"github.com/davrenn/flowdraft/internal/genservice"
	"github.com/davrenn/flowdraft/internal/logging"
	"github.com/davrenn/flowdraft/internal/pipeline"
	"github.com/davrenn/flowdraft/internal/scheduler"
	"github.com/davrenn/flowdraft/internal/server"
	"github.com/davrenn/flowdraft/internal/store"
	"github.com/davrenn/flowdraft/pkg/mcp"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg := loadConfig()

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})
	logger := slog.New(logging.NewCorrelationHandler(handler))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("flowdraft exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remote generation is optional: without an API key every request runs
	// the local deterministic pipeline.
	var gen pipeline.Generator
	if genCfg := genservice.ConfigFromEnv(); genCfg.APIKey != "" {
		client, err := genservice.NewOpenAIClient(genCfg, logger)
		if err != nil {
			return err
		}
		gen = client
		logger.Info("remote generation service configured")
	} else {
		logger.Info("no generation service API key, running local pipeline only")
	}

	converter, err := pipeline.NewConverter(pipeline.ConverterDeps{
		Generator: gen,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if cfg.MCP {
		logger.Info("serving MCP on stdio")
		srv := mcp.NewFlowdraftServer(mcp.FlowdraftServerDeps{Converter: converter, Logger: logger})
		return srv.Serve(ctx)
	}

	st, err := store.NewLibSQLStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	purger, err := scheduler.NewPurgeScheduler(st, cfg.PurgeSchedule, logger)
	if err != nil {
		return err
	}
	if err := purger.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = purger.Stop() }()

	api, err := server.New(server.Deps{
		Converter: converter,
		Auth:      auth.NewManager(st, 0, logger),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: api.Handler()}
	go func() {
		<-ctx.Done()
		_ = httpSrv.Shutdown(context.Background())
	}()

	logger.Info("flowdraft listening", slog.String("addr", cfg.ListenAddr))
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
