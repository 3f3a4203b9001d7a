package data

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/go-kit/log"
	"github.com/nsqio/go-nsq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	entries []model.LogEntry
}

func (p *recordingPublisher) PublishAsync(topic string, body []byte, _ chan *nsq.ProducerTransaction, _ ...interface{}) error {
	var entry model.LogEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
	return nil
}

func TestGatewayLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	publisher := &recordingPublisher{}
	stats := NewGatewayStats()
	stub := newStubGateway()
	gateway := NewGatewayLoggingMiddleware(log.NewLogfmtLogger(&buf), publisher, stats)(stub)
	ctx := context.Background()

	_, err := gateway.Autocomplete(ctx, "main")
	require.NoError(t, err)
	_, err = gateway.ComputeRoute(ctx, testOrigin, testDestination)
	require.NoError(t, err)

	stub.err = errors.New("boom")
	_, err = gateway.ResolveDetails(ctx, "p1")
	require.Error(t, err)

	assert.Equal(t, map[string]int64{"autocompletes": 1, "lookups": 1, "routes": 1, "failures": 1}, stats.Snapshot())

	require.Len(t, publisher.entries, 3)
	assert.Equal(t, TopicSearchGateway, publisher.entries[0].Topic)
	assert.Equal(t, model.SeverityInfo, publisher.entries[0].Severity)
	assert.Equal(t, model.SeverityError, publisher.entries[2].Severity)
	assert.Contains(t, publisher.entries[2].Message, "method: ResolveDetails, success: false, error: boom")

	logged := buf.String()
	assert.Contains(t, logged, "component=search_gateway")
	assert.Contains(t, logged, "method=ResolveDetails")
	assert.Contains(t, logged, "level=warn")
}

func TestGatewayLoggingMiddlewareWithoutPublisher(t *testing.T) {
	gateway := NewGatewayLoggingMiddleware(log.NewNopLogger(), nil, nil)(newStubGateway())
	suggestions, err := gateway.Autocomplete(context.Background(), "main")
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)
}
