package publish

import (
	"context"
	"log/slog"
	"sync"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/rickgao/voldash/internal/config"
	"github.com/rickgao/voldash/internal/metrics"
	"github.com/rickgao/voldash/internal/model"
)

// MessageWriter writes messages to Kafka. *kafka.Writer satisfies it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

// NewKafkaWriter builds a producer for cfg. Messages with the same key go
// to the same partition.
func NewKafkaWriter(cfg config.KafkaConfig) *kafkaGo.Writer {
	return &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkaGo.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafkaGo.RequireOne,
	}
}

// Publisher is a batch sink that forwards batches to Kafka asynchronously.
type Publisher struct {
	w       MessageWriter
	logger  *slog.Logger
	metrics *metrics.Metrics

	input chan *model.Batch

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	dropped int64
}

// NewPublisher creates a Publisher queueing up to bufferSize batches.
func NewPublisher(w MessageWriter, bufferSize int, m *metrics.Metrics, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize <= 0 {
		bufferSize = config.DefaultKafkaBuffer
	}
	return &Publisher{
		w:       w,
		logger:  logger,
		metrics: m,
		input:   make(chan *model.Batch, bufferSize),
	}
}

// Start begins the publish loop.
func (p *Publisher) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("kafka publisher started", "buffer", cap(p.input))
	return nil
}

// Stop drains queued batches within ctx and closes the writer.
func (p *Publisher) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

drain:
	for {
		select {
		case b := <-p.input:
			p.publish(ctx, b)
		case <-ctx.Done():
			break drain
		default:
			break drain
		}
	}

	err := p.w.Close()
	p.logger.Info("kafka publisher stopped")
	return err
}

// HandleBatch queues b without blocking. Nil and failed batches are ignored.
func (p *Publisher) HandleBatch(b *model.Batch) {
	if b == nil || b.Failed {
		return
	}
	select {
	case p.input <- b:
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
		p.logger.Warn("kafka buffer full, dropping batch", "batch_id", b.ID, "tag", b.Tag)
	}
}

// Dropped returns the number of batches rejected because the queue was full.
func (p *Publisher) Dropped() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *Publisher) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case b := <-p.input:
			p.publish(p.ctx, b)
		}
	}
}

func (p *Publisher) publish(ctx context.Context, b *model.Batch) {
	msg, err := Encode(b)
	if err != nil {
		p.metrics.Published(err)
		p.logger.Error("encode batch failed", "batch_id", b.ID, "err", err)
		return
	}

	start := time.Now()
	err = p.w.WriteMessages(ctx, msg)
	p.metrics.Published(err)
	if err != nil {
		p.logger.Error("publish batch failed", "batch_id", b.ID, "tag", b.Tag, "err", err)
		return
	}
	p.logger.Debug("published batch",
		"batch_id", b.ID,
		"tag", b.Tag,
		"records", len(b.Records),
		"duration", time.Since(start),
	)
}
