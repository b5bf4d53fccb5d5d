package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/voldash/internal/api"
	"github.com/rickgao/voldash/internal/cache"
	"github.com/rickgao/voldash/internal/config"
	"github.com/rickgao/voldash/internal/database"
	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/logging"
	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/publish"
	"github.com/rickgao/voldash/internal/registry"
	"github.com/rickgao/voldash/internal/server"
	"github.com/rickgao/voldash/internal/server/handler"
	"github.com/rickgao/voldash/internal/server/usecase"
	"github.com/rickgao/voldash/internal/source"
	"github.com/rickgao/voldash/internal/stream"
	"github.com/rickgao/voldash/internal/table"
	"github.com/rickgao/voldash/internal/version"
	"github.com/rickgao/voldash/internal/viewstate"
	"github.com/rickgao/voldash/internal/warmer"
	"github.com/rickgao/voldash/internal/writer"
)

// stoppable is a component with a graceful shutdown.
type stoppable struct {
	name string
	stop func(ctx context.Context) error
}

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	envFile := flag.String("env", ".env", "dotenv file loaded before the config")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "load env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "set up logging: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("voldash failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.LoadAndValidate(path)
}

func run(cfg *config.Config, logger *slog.Logger) error {
	info := version.Get()
	logger.Info("starting voldash",
		"version", info.Version,
		"commit", info.Commit,
		"go", info.GoVersion,
		"source", cfg.Source.Kind,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	m := metrics.New(time.Now())
	var stops []stoppable
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		for i := len(stops) - 1; i >= 0; i-- {
			if err := stops[i].stop(shutdownCtx); err != nil {
				logger.Warn("shutdown error", "component", stops[i].name, "error", err)
			}
		}
	}()

	src, err := newSource(cfg.Source, logger)
	if err != nil {
		return err
	}

	reg := registry.New(registry.Config{
		ReconcileInterval:  cfg.Registry.ReconcileInterval,
		InitialLoadTimeout: cfg.Registry.InitialLoadTimeout,
	}, src, logger)
	logger.Info("starting instrument registry (initial sync)")
	if err := reg.Start(ctx); err != nil {
		logger.Warn("instrument registry initial sync failed, continuing empty", "error", err)
	}
	stops = append(stops, stoppable{"registry", reg.Stop})
	logger.Info("instrument registry started", "codes", len(reg.Codes()))
	go logChanges(ctx, reg, logger)

	sinks := []viewstate.BatchSink{reg}

	if cfg.Archive.Enabled {
		w, err := startArchive(ctx, cfg.Archive, m, logger, &stops)
		if err != nil {
			return err
		}
		sinks = append(sinks, w)
	}

	if cfg.Kafka.Enabled {
		p, err := startPublisher(ctx, cfg.Kafka, m, logger)
		if err != nil {
			return err
		}
		stops = append(stops, stoppable{"publisher", p.Stop})
		sinks = append(sinks, p)
	}

	defaultTag, err := model.ParseTag(cfg.Dashboard.DefaultTag)
	if err != nil {
		return fmt.Errorf("dashboard default tag: %w", err)
	}
	ctrl := viewstate.New(viewstate.Config{
		DefaultTag:       defaultTag,
		SubscriberBuffer: cfg.Dashboard.SubscriberBuffer,
	}, src, cache.NewTagCache(),
		viewstate.WithLogger(logger),
		viewstate.WithMetrics(m),
		viewstate.WithSinks(sinks...),
	)
	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start controller: %w", err)
	}
	stops = append(stops, stoppable{"controller", ctrl.Stop})

	if cfg.Warmup.Enabled {
		wm := warmer.New(warmer.Config{
			Concurrency: cfg.Warmup.Concurrency,
			Timeout:     cfg.Warmup.Timeout,
		}, ctrl, logger)
		if err := wm.Start(ctx); err != nil {
			return fmt.Errorf("start warmer: %w", err)
		}
		stops = append(stops, stoppable{"warmer", wm.Stop})
	}

	fetcher := detail.NewFetcher(src, reg, detail.WithLogger(logger), detail.WithMetrics(m))
	uc := usecase.NewUsecase(ctrl, fetcher, table.ParseLocale(cfg.Dashboard.Locale), cfg.Dashboard.PageSize, m, logger)

	hubCfg := stream.DefaultConfig()
	hubCfg.PingInterval = cfg.Server.PingInterval
	hubCfg.PongTimeout = 2 * cfg.Server.PingInterval
	hub := stream.NewHub(hubCfg, ctrl, m, logger)
	stops = append(stops, stoppable{"stream hub", hub.Close})

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(handler.NewHandler(uc), hub, cfg.Server.RequestTimeout, logger)
	srv := server.New(cfg.Server.Port, router, logger)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	stops = append(stops, stoppable{"server", srv.Stop})

	logger.Info("voldash running",
		"tag", defaultTag,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
	)

	select {
	case <-ctx.Done():
	case err := <-srv.Errors():
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	}

	logger.Info("shutting down...")
	return nil
}

// newSource builds the configured data source, wrapped with simulated
// latency when enabled.
func newSource(cfg config.SourceConfig, logger *slog.Logger) (source.Source, error) {
	var src source.Source
	switch cfg.Kind {
	case "mock":
		var opts []source.GeneratorOption
		if cfg.Seed != 0 {
			opts = append(opts, source.WithSeed(cfg.Seed))
		}
		src = source.NewGenerator(opts...)
	case "remote":
		client := api.NewClient(
			cfg.Remote.URL,
			cfg.Remote.APIKey,
			api.WithLogger(logger),
			api.WithTimeout(cfg.Remote.Timeout),
			api.WithRetries(cfg.Remote.MaxRetries, cfg.Remote.RetryBackoff),
			api.WithUserAgent(version.String()),
		)
		src = source.NewRemote(client)
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}

	if cfg.Latency > 0 {
		src = source.NewDelayed(src, cfg.Latency)
	}
	return src, nil
}

func startArchive(ctx context.Context, cfg config.ArchiveConfig, m *metrics.Metrics, logger *slog.Logger, stops *[]stoppable) (*writer.SnapshotWriter, error) {
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect archive database: %w", err)
	}
	*stops = append(*stops, stoppable{"database", func(context.Context) error {
		pool.Close()
		return nil
	}})

	if err := database.EnsureSchema(ctx, pool); err != nil {
		return nil, err
	}
	logger.Info("database connected")

	w := writer.NewSnapshotWriter(writer.WriterConfig{
		BatchSize:     cfg.BatchSize,
		FlushInterval: cfg.FlushInterval,
		BufferSize:    cfg.BufferSize,
	}, pool, m, logger)
	if err := w.Start(ctx); err != nil {
		return nil, fmt.Errorf("start snapshot writer: %w", err)
	}
	*stops = append(*stops, stoppable{"snapshot writer", w.Stop})
	return w, nil
}

func startPublisher(ctx context.Context, cfg config.KafkaConfig, m *metrics.Metrics, logger *slog.Logger) (*publish.Publisher, error) {
	if err := publish.EnsureTopic(cfg.Brokers[0], cfg.Topic, 1, logger); err != nil {
		logger.Warn("ensure topic failed, relying on broker auto-create", "topic", cfg.Topic, "error", err)
	}

	p := publish.NewPublisher(publish.NewKafkaWriter(cfg), cfg.BufferSize, m, logger)
	if err := p.Start(ctx); err != nil {
		return nil, fmt.Errorf("start publisher: %w", err)
	}
	logger.Info("batch publisher started", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return p, nil
}

// logChanges reports registry additions until ctx ends.
func logChanges(ctx context.Context, reg registry.Registry, logger *slog.Logger) {
	changes := reg.SubscribeChanges()
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			logger.Debug("registry change", "code", c.Code, "event", c.EventType, "name", c.Entry.Name)
		}
	}
}
