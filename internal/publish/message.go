package publish

import (
	"encoding/json"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/rickgao/voldash/internal/model"
)

// BatchMessage is the JSON payload published for one batch.
type BatchMessage struct {
	BatchID   string                   `json:"batchId"`
	Tag       model.Tag                `json:"tag"`
	FetchedAt time.Time                `json:"fetchedAt"`
	Count     int                      `json:"count"`
	Records   []model.InstrumentRecord `json:"records"`
}

// Encode builds the Kafka message for a batch.
func Encode(b *model.Batch) (kafkaGo.Message, error) {
	payload := BatchMessage{
		BatchID:   b.ID,
		Tag:       b.Tag,
		FetchedAt: b.FetchedAt.UTC(),
		Count:     len(b.Records),
		Records:   b.Records,
	}
	if payload.Records == nil {
		payload.Records = []model.InstrumentRecord{}
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("marshal batch %s: %w", b.ID, err)
	}

	return kafkaGo.Message{
		Key:   []byte(b.Tag),
		Value: value,
		Time:  b.FetchedAt,
		Headers: []kafkaGo.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "batch-id", Value: []byte(b.ID)},
		},
	}, nil
}

// Decode parses a message produced by Encode.
func Decode(m kafkaGo.Message) (*BatchMessage, error) {
	var msg BatchMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return &msg, nil
}
