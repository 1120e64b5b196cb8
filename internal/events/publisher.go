// Package events publishes catalog mutation events. Consumers run
// best-effort post-mutation work (picture verification, feed rebuilds);
// publishing never participates in the mutation's success.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

type Type string

const (
	ComponentCreated  Type = "component.created"
	ComponentUpdated  Type = "component.updated"
	ComponentDeleted  Type = "component.deleted"
	VariantAdded      Type = "variant.added"
	VariantRemoved    Type = "variant.removed"
	PictureUploaded   Type = "picture.uploaded"
	PictureDeleted    Type = "picture.deleted"
	PicturesReordered Type = "pictures.reordered"
)

type Event struct {
	Type        Type      `json:"type"`
	ComponentID string    `json:"component_id"`
	At          time.Time `json:"at"`
}

type Config struct {
	Brokers []string
	Topic   string
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(cfg *Config) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	if evt.At.IsZero() {
		evt.At = time.Now()
	}
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.ComponentID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
