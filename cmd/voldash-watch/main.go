// voldash-watch connects to a running voldash server's state stream and
// prints every update to the console.
// Usage: go run ./cmd/voldash-watch --url ws://localhost:8080/ws --tag metals
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rickgao/voldash/internal/config"
	"github.com/rickgao/voldash/internal/logging"
	"github.com/rickgao/voldash/internal/model"
	"github.com/rickgao/voldash/internal/viewstate"
	"github.com/rickgao/voldash/internal/watch"
)

func main() {
	def := watch.DefaultConfig()
	url := flag.String("url", def.URL, "state stream address")
	tag := flag.String("tag", "", "tag to select after connecting")
	verbose := flag.Bool("verbose", false, "print full frame JSON")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logger, err := logging.New(config.LogConfig{Level: *level, Format: "text"}, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "set up logging: %v\n", err)
		os.Exit(1)
	}

	if *tag != "" {
		if _, err := model.ParseTag(*tag); err != nil {
			logger.Error("invalid tag", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	cfg := def
	cfg.URL = *url
	cfg.Tag = *tag

	logger.Info("watching state stream - press Ctrl+C to stop", "url", cfg.URL, "tag", cfg.Tag)
	err = watch.Watch(ctx, cfg, logger, func(ev watch.Event) {
		if *verbose {
			data, _ := json.MarshalIndent(ev.Message, "", "  ")
			fmt.Printf("[%s] %s\n", strings.ToUpper(ev.Message.Type), data)
			return
		}
		fmt.Println(formatEvent(ev))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("watch failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func formatEvent(ev watch.Event) string {
	at := ev.ReceivedAt.Format(time.TimeOnly)
	if ev.Message.State == nil {
		return fmt.Sprintf("%s [%s] %s", at, strings.ToUpper(ev.Message.Type), ev.Message.Error)
	}
	return fmt.Sprintf("%s [STATE] %s", at, formatSummary(*ev.Message.State))
}

func formatSummary(s viewstate.Summary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "tag=%s version=%d", s.Tag, s.Version)
	switch {
	case s.Loading:
		sb.WriteString(" loading")
	case s.Failed:
		sb.WriteString(" failed")
	default:
		fmt.Fprintf(&sb, " batch=%s count=%d", s.BatchID, s.Count)
	}
	for _, hs := range s.HotSections {
		if len(hs.Data) > 0 {
			fmt.Fprintf(&sb, " %s=%s", hs.Type, hs.Data[0].CategoryCode)
		}
	}
	return sb.String()
}
