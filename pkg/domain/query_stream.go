package domain

import (
	"context"
	"unicode/utf8"

	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
	"github.com/go-kit/log/level"
)

// queryStream turns one endpoint's query text changes into debounced,
// latest-wins autocomplete requests.
type queryStream struct {
	role  model.Role
	jobID string

	// quiet is bumped by every text change; a timer only counts if it is still current.
	quiet         uint64
	request       inflight
	lastProcessed string
	processed     bool
}

func newQueryStream(role model.Role) *queryStream {
	return &queryStream{role: role, jobID: "query:" + role.String()}
}

// forget drops the stream's memory of the last processed text.
func (qs *queryStream) forget() {
	qs.lastProcessed, qs.processed = "", false
}

// pushQuery feeds a new text value into the role's stream: the pending quiet
// period restarts and any outstanding autocomplete result is invalidated.
func (c *SearchCoordinator) pushQuery(role model.Role) {
	qs := c.streams[role]
	qs.request.invalidate()
	qs.quiet++
	quiet := qs.quiet
	job := c.scheduler.NewJob(qs.jobID, func(ctx context.Context) {
		c.post(func() { c.onQuietPeriodElapsed(role, quiet) })
	})
	c.scheduler.AddOneShot(c.ctx, job, c.quietPeriod)
}

// cancelQuery stops the role's pending timer and outstanding autocomplete.
func (c *SearchCoordinator) cancelQuery(role model.Role) {
	qs := c.streams[role]
	qs.request.invalidate()
	qs.quiet++
	c.scheduler.Cancel(qs.jobID)
}

func (c *SearchCoordinator) onQuietPeriodElapsed(role model.Role, quiet uint64) {
	qs := c.streams[role]
	if quiet != qs.quiet {
		return
	}
	ep := c.state.endpoint(role)
	text := ep.queryText
	if utf8.RuneCountInString(text) < c.minQueryLength {
		return
	}
	if qs.processed && text == qs.lastProcessed {
		return
	}
	qs.lastProcessed, qs.processed = text, true
	if ep.suppression.suppressed() {
		_ = level.Debug(c.logger).Log("msg", "auto search suppressed", "role", role, "query", text)
		return
	}

	ctx, generation := qs.request.next(c.ctx)
	_ = level.Debug(c.logger).Log("msg", "autocomplete", "role", role, "query", text)
	c.async(func() {
		suggestions, err := c.gateway.Autocomplete(ctx, text)
		c.post(func() { c.applySuggestions(role, generation, suggestions, err) })
	})
}

func (c *SearchCoordinator) applySuggestions(role model.Role, generation uint64, suggestions []model.AutocompleteSuggestion, err error) {
	qs := c.streams[role]
	if !qs.request.current(generation) {
		return
	}
	qs.request.done(generation)
	if err != nil {
		// degraded to an empty list, never surfaced
		_ = level.Warn(c.logger).Log("msg", "autocomplete degraded", "role", role, "err", definition.AutocompleteFailed(err))
		suggestions = nil
	}
	c.state.endpoint(role).suggestions = suggestions
	c.publish()
}
