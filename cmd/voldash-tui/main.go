package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rickgao/voldash/internal/cache"
	"github.com/rickgao/voldash/internal/config"
	"github.com/rickgao/voldash/internal/detail"
	"github.com/rickgao/voldash/internal/logging"
	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/registry"
	"github.com/rickgao/voldash/internal/source"
	"github.com/rickgao/voldash/internal/table"
	"github.com/rickgao/voldash/internal/tui"
	"github.com/rickgao/voldash/internal/version"
	"github.com/rickgao/voldash/internal/viewstate"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	logFile := flag.String("log", "voldash-tui.log", "log file; the terminal belongs to the UI")
	seed := flag.Uint64("seed", 0, "mock generator seed (0 keeps the config value)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "load env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadAndValidate(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if cfg.Log.File == "" {
		cfg.Log.File = *logFile
	}
	if *seed != 0 {
		cfg.Source.Seed = *seed
	}

	logger, closer, err := logging.OpenFile(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("voldash-tui failed", "error", err)
		fmt.Fprintf(os.Stderr, "voldash-tui: %v\n", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting voldash-tui", "version", version.Version, "source", cfg.Source.Kind)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var src source.Source
	switch cfg.Source.Kind {
	case "mock":
		var opts []source.GeneratorOption
		if cfg.Source.Seed != 0 {
			opts = append(opts, source.WithSeed(cfg.Source.Seed))
		}
		src = source.NewGenerator(opts...)
	default:
		return fmt.Errorf("terminal UI supports the mock source only, got %q", cfg.Source.Kind)
	}
	if cfg.Source.Latency > 0 {
		src = source.NewDelayed(src, cfg.Source.Latency)
	}

	shutdown := func(name string, stop func(context.Context) error) {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer stopCancel()
		if err := stop(stopCtx); err != nil {
			logger.Warn("shutdown error", "component", name, "error", err)
		}
	}

	reg := registry.New(registry.Config{
		ReconcileInterval:  cfg.Registry.ReconcileInterval,
		InitialLoadTimeout: cfg.Registry.InitialLoadTimeout,
	}, src, logger)
	if err := reg.Start(ctx); err != nil {
		logger.Warn("instrument registry initial sync failed, continuing empty", "error", err)
	}
	defer shutdown("registry", reg.Stop)

	defaultTag, err := model.ParseTag(cfg.Dashboard.DefaultTag)
	if err != nil {
		return fmt.Errorf("dashboard default tag: %w", err)
	}

	m := metrics.New(time.Now())
	ctrl := viewstate.New(viewstate.Config{
		DefaultTag:       defaultTag,
		SubscriberBuffer: cfg.Dashboard.SubscriberBuffer,
	}, src, cache.NewTagCache(),
		viewstate.WithLogger(logger),
		viewstate.WithMetrics(m),
		viewstate.WithSinks(reg),
	)
	if err := ctrl.Start(ctx); err != nil {
		return fmt.Errorf("start controller: %w", err)
	}
	defer shutdown("controller", ctrl.Stop)

	session := detail.NewSession(detail.NewFetcher(src, reg, detail.WithLogger(logger), detail.WithMetrics(m)))
	defer session.Close()

	ui := tui.New(tui.Config{
		Locale:   table.ParseLocale(cfg.Dashboard.Locale),
		PageSize: cfg.Dashboard.PageSize,
	}, ctrl, session, logger)
	defer ui.Close()

	p := tea.NewProgram(ui, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	logger.Info("voldash-tui stopped", "snapshot", m.Snapshot())
	return nil
}
