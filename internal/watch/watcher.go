package watch

import (
	"context"
	"log/slog"
	"time"
)

// Watch streams events to fn until ctx ends. A dropped or failed connection
// is retried with exponential backoff; the configured tag is re-selected on
// every connect. fn runs on the calling goroutine.
func Watch(ctx context.Context, cfg Config, logger *slog.Logger, fn func(Event)) error {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = def.ReconnectBaseWait
	}
	if cfg.ReconnectMaxWait < cfg.ReconnectBaseWait {
		cfg.ReconnectMaxWait = max(def.ReconnectMaxWait, cfg.ReconnectBaseWait)
	}

	wait := cfg.ReconnectBaseWait
	for {
		client := NewClient(cfg, logger)
		err := client.Connect(ctx)
		if err == nil {
			wait = cfg.ReconnectBaseWait
			err = serve(ctx, client, cfg.Tag, fn)
		}
		client.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("stream disconnected, reconnecting", "error", err, "wait", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, cfg.ReconnectMaxWait)
	}
}

func serve(ctx context.Context, client *Client, tag string, fn func(Event)) error {
	if tag != "" {
		if err := client.SetTag(tag); err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-client.Errors():
			// Frames read before the failure are already buffered.
			for {
				select {
				case ev := <-client.Events():
					fn(ev)
				default:
					return err
				}
			}
		case ev := <-client.Events():
			fn(ev)
		}
	}
}
