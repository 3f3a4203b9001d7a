package data

import (
	"context"
	"fmt"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	def "github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/nsqio/go-nsq"
	"go.uber.org/atomic"
)

const TopicSearchGateway = "search_gateway"

// Publisher is the part of *nsq.Producer the middlewares use.
type Publisher interface {
	PublishAsync(topic string, body []byte, doneChan chan *nsq.ProducerTransaction, args ...interface{}) error
}

type GatewayMiddleware func(gateway def.SearchGateway) def.SearchGateway

type GatewayStats struct {
	Autocompletes *atomic.Int64
	Lookups       *atomic.Int64
	Routes        *atomic.Int64
	Failures      *atomic.Int64
}

func NewGatewayStats() *GatewayStats {
	return &GatewayStats{
		Autocompletes: atomic.NewInt64(0),
		Lookups:       atomic.NewInt64(0),
		Routes:        atomic.NewInt64(0),
		Failures:      atomic.NewInt64(0),
	}
}

func (s *GatewayStats) Snapshot() map[string]int64 {
	return map[string]int64{
		"autocompletes": s.Autocompletes.Load(),
		"lookups":       s.Lookups.Load(),
		"routes":        s.Routes.Load(),
		"failures":      s.Failures.Load(),
	}
}

type gatewayMW struct {
	def.SearchGateway
	logger    log.Logger
	publisher Publisher
	stats     *GatewayStats
}

func (g *gatewayMW) Autocomplete(ctx context.Context, query string) (suggestions []model.AutocompleteSuggestion, err error) {
	defer func(begin time.Time) {
		g.stats.Autocompletes.Inc()
		g.record("Autocomplete", begin, err, "query", query, "suggestions", len(suggestions))
	}(time.Now())
	return g.SearchGateway.Autocomplete(ctx, query)
}

func (g *gatewayMW) ResolveDetails(ctx context.Context, placeID string) (address *model.ResolvedAddress, err error) {
	defer func(begin time.Time) {
		g.stats.Lookups.Inc()
		g.record("ResolveDetails", begin, err, "place_id", placeID)
	}(time.Now())
	return g.SearchGateway.ResolveDetails(ctx, placeID)
}

func (g *gatewayMW) ComputeRoute(ctx context.Context, origin, destination model.Coordinate) (route *model.RouteInfo, err error) {
	defer func(begin time.Time) {
		g.stats.Routes.Inc()
		g.record("ComputeRoute", begin, err, "origin", origin, "destination", destination, "found", route != nil)
	}(time.Now())
	return g.SearchGateway.ComputeRoute(ctx, origin, destination)
}

func (g *gatewayMW) record(method string, begin time.Time, err error, keyvals ...interface{}) {
	keyvals = append([]interface{}{"method", method, "took", time.Since(begin), "err", err}, keyvals...)
	logger := level.Debug(g.logger)
	severity := model.SeverityInfo
	if err != nil {
		g.stats.Failures.Inc()
		logger = level.Warn(g.logger)
		severity = model.SeverityError
	}
	_ = logger.Log(keyvals...)
	_ = g.publishLogEntry(method, severity, err)
}

func (g *gatewayMW) publishLogEntry(method, severity string, err error) error {
	if g.publisher == nil {
		return nil
	}
	logEntry := model.LogEntry{
		Topic:     TopicSearchGateway,
		Severity:  severity,
		Message:   fmt.Sprintf("method: %s, success: %v, error: %v", method, err == nil, err),
		Component: "search_gateway",
	}
	bytes, err := logEntry.Bytes()
	if err != nil {
		return err
	}
	return g.publisher.PublishAsync(logEntry.Topic, bytes, nil)
}

// NewGatewayLoggingMiddleware logs every gateway call, counts it in stats and,
// when publisher is set, ships a LogEntry to NSQ.
func NewGatewayLoggingMiddleware(logger log.Logger, publisher Publisher, stats *GatewayStats) GatewayMiddleware {
	if stats == nil {
		stats = NewGatewayStats()
	}
	logger = log.With(logger, "component", "search_gateway")
	return func(gateway def.SearchGateway) def.SearchGateway {
		return &gatewayMW{SearchGateway: gateway, logger: logger, publisher: publisher, stats: stats}
	}
}
