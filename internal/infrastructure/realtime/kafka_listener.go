package realtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-consola/internal/application/ports"
)

var _ ports.PushListener = (*KafkaListener)(nil)

// KafkaConfig consumo de los tópicos de productos y alertas.
type KafkaConfig struct {
	Brokers      []string
	GroupID      string
	ProductTopic string
	AlertTopic   string
	MaxWait      time.Duration
}

// KafkaListener un lector por tópico dentro del mismo grupo de consumo.
type KafkaListener struct {
	cfg    KafkaConfig
	topics map[string]string
	log    zerolog.Logger
}

// NewKafkaListener construye el listener.
func NewKafkaListener(cfg KafkaConfig, log zerolog.Logger) *KafkaListener {
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 500 * time.Millisecond
	}
	return &KafkaListener{cfg: cfg, topics: topicKinds(cfg.ProductTopic, cfg.AlertTopic), log: log}
}

// Run consume hasta que ctx se cancela y cierra los lectores.
func (l *KafkaListener) Run(ctx context.Context, handle ports.PushHandler) error {
	if len(l.cfg.Brokers) == 0 {
		return errors.New("kafka: sin brokers configurados")
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(l.topics))
	for topic, kind := range l.topics {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:        l.cfg.Brokers,
			GroupID:        l.cfg.GroupID,
			Topic:          topic,
			MinBytes:       1,
			MaxBytes:       10e6,
			MaxWait:        l.cfg.MaxWait,
			CommitInterval: time.Second,
		})
		wg.Add(1)
		go func(topic, kind string) {
			defer wg.Done()
			defer reader.Close()
			if err := l.consume(ctx, reader, topic, kind, handle); err != nil {
				errCh <- err
			}
		}(topic, kind)
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

func (l *KafkaListener) consume(ctx context.Context, reader *kafka.Reader, topic, kind string, handle ports.PushHandler) error {
	l.log.Info().Str("topic", topic).Str("group", l.cfg.GroupID).Msg("kafka: consumiendo")
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("kafka: lector de %s cerrado: %w", topic, err)
			}
			l.log.Error().Err(err).Str("topic", topic).Msg("kafka: error leyendo mensaje")
			continue
		}

		received := msg.Time
		if received.IsZero() {
			received = time.Now()
		}
		handle(ctx, ports.PushEvent{Kind: kind, Topic: topic, Payload: msg.Value, ReceivedAt: received.UTC()})

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			l.log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("kafka: error confirmando mensaje")
		}
	}
}
