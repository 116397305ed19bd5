package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type recordingProducer struct {
	records []*kgo.Record
	err     error
}

func (p *recordingProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var results kgo.ProduceResults
	for _, r := range rs {
		p.records = append(p.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: p.err})
	}
	return results
}

func TestKafkaStore_Append(t *testing.T) {
	producer := &recordingProducer{}
	store := NewKafkaStore(producer, "bgc-audit")

	event := Event{
		ID:          uuid.New(),
		Category:    CategoryCompliance,
		Timestamp:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Action:      ActionTrace,
		SubjectHash: "abc123",
		Outcome:     "ok",
	}
	require.NoError(t, store.Append(context.Background(), event))

	require.Len(t, producer.records, 1)
	rec := producer.records[0]
	assert.Equal(t, "bgc-audit", rec.Topic)
	assert.Equal(t, []byte("abc123"), rec.Key)
	assert.Equal(t, event.Timestamp, rec.Timestamp)
	assert.Contains(t, rec.Headers, kgo.RecordHeader{Key: "action", Value: []byte("bgc_trace")})

	var decoded Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Action, decoded.Action)
	assert.Equal(t, event.Outcome, decoded.Outcome)
}

func TestKafkaStore_ProduceError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	err := NewKafkaStore(producer, "").Append(context.Background(), Event{SubjectHash: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}
