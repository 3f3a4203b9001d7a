package logging

import (
	"fmt"
	"net/http"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/internal/common"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
)

const NSQApiRequestTopic = "api_requests"

type handler struct {
	publisher data.Publisher
	logger    log.Logger
}

// New logs every request. publisher may be nil, in which case nothing is
// shipped to NSQ.
func New(publisher data.Publisher, logger log.Logger) *handler {
	return &handler{publisher, log.With(logger, "component", "api-service")}
}

func (h *handler) logging(next http.Handler) http.Handler {
	fn := func(resp http.ResponseWriter, req *http.Request) {
		start := time.Now()
		wrapped := common.WrapResponse(resp)
		next.ServeHTTP(wrapped, req)
		took := time.Since(start)
		_ = level.Info(h.logger).Log("status", wrapped.Status(), "method", req.Method, "path", req.RequestURI, "took", took)
		h.archiveLog(model.LogEntry{
			Topic:     NSQApiRequestTopic,
			Severity:  model.SeverityInfo,
			Message:   fmt.Sprintf("status: %s, method: %s, path: %s, duration: %v", http.StatusText(wrapped.Status()), req.Method, req.RequestURI, took),
			Component: "api-service",
		})
		if len(wrapped.Error()) > 0 {
			errorMsg := string(wrapped.Error())
			_ = level.Error(h.logger).Log("path", req.RequestURI, "err", errorMsg)
			h.archiveLog(model.LogEntry{
				Topic:     NSQApiRequestTopic,
				Severity:  model.SeverityError,
				Message:   errorMsg,
				Component: "api-service",
			})
		}
	}
	return http.HandlerFunc(fn)
}

func (h *handler) archiveLog(entry model.LogEntry) {
	if h.publisher == nil {
		return
	}
	bytes, err := entry.Bytes()
	if err != nil {
		_ = level.Error(h.logger).Log("msg", "failed to marshal log message", "err", err)
		return
	}
	if err = h.publisher.PublishAsync(NSQApiRequestTopic, bytes, nil); err != nil {
		_ = level.Error(h.logger).Log("msg", "failed to publish message", "topic", NSQApiRequestTopic, "err", err)
	}
}

func (h *handler) Setup(router *mux.Router) {
	router.Use(h.logging)
}
