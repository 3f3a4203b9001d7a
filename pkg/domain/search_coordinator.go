package domain

import (
	"context"
	"sync"
	"time"

	"github.com/VinothKuppanna/pigeon-maps/internal/scheduler"
	"github.com/VinothKuppanna/pigeon-maps/pkg/data/model"
	"github.com/VinothKuppanna/pigeon-maps/pkg/domain/definition"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jonboulle/clockwork"
	"go.uber.org/atomic"
)

const (
	DefaultQuietPeriod    = 1000 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultSelectionZoom  = 14.0
	InitialZoom           = 1.0

	eventBacklog = 64
)

type Option func(*SearchCoordinator)

func WithClock(clock clockwork.Clock) Option {
	return func(c *SearchCoordinator) { c.clock = clock }
}

func WithLogger(logger log.Logger) Option {
	return func(c *SearchCoordinator) { c.logger = logger }
}

func WithQuietPeriod(d time.Duration) Option {
	return func(c *SearchCoordinator) { c.quietPeriod = d }
}

func WithMinQueryLength(n int) Option {
	return func(c *SearchCoordinator) { c.minQueryLength = n }
}

func WithSelectionZoom(zoom float64) Option {
	return func(c *SearchCoordinator) { c.selectionZoom = zoom }
}

// SearchCoordinator owns the state of one pickup/drop-off search session.
//
// All state lives on a single event loop goroutine. Intents (OnQueryChanged,
// OnSuggestionSelected, OnClear, OnSwap) run on the loop and return once their
// synchronous part is applied; timers and gateway calls run off the loop and
// post their results back, where results superseded by a newer request are
// dropped.
type SearchCoordinator struct {
	gateway        definition.SearchGateway
	clock          clockwork.Clock
	logger         log.Logger
	scheduler      scheduler.Scheduler
	quietPeriod    time.Duration
	minQueryLength int
	selectionZoom  float64

	ctx    context.Context
	cancel context.CancelFunc
	events chan func()
	done   chan struct{}
	closed *atomic.Bool
	wg     sync.WaitGroup

	// owned by the event loop
	state            sessionState
	streams          [2]*queryStream
	selections       [2]inflight
	route            inflight
	// set when a selection cancelled a pending route; a failed lookup restarts it
	routeInterrupted bool
	noticeSeq        uint64
	subscribers      map[int]chan model.SessionSnapshot
	nextSubID        int
}

func NewSearchCoordinator(gateway definition.SearchGateway, opts ...Option) *SearchCoordinator {
	c := &SearchCoordinator{
		gateway:        gateway,
		clock:          clockwork.NewRealClock(),
		logger:         log.NewNopLogger(),
		quietPeriod:    DefaultQuietPeriod,
		minQueryLength: DefaultMinQueryLength,
		selectionZoom:  DefaultSelectionZoom,
		events:         make(chan func(), eventBacklog),
		done:           make(chan struct{}),
		closed:         atomic.NewBool(false),
		subscribers:    make(map[int]chan model.SessionSnapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = log.With(c.logger, "component", "search_coordinator")
	c.scheduler = scheduler.New(c.logger, c.clock)
	c.state.zoom = InitialZoom
	for _, role := range model.Roles {
		c.streams[role] = newQueryStream(role)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	go c.loop()
	return c
}

func (c *SearchCoordinator) loop() {
	defer close(c.done)
	for {
		select {
		case fn := <-c.events:
			fn()
		case <-c.ctx.Done():
			for id, ch := range c.subscribers {
				close(ch)
				delete(c.subscribers, id)
			}
			return
		}
	}
}

// dispatch runs fn on the event loop and waits for it.
// It reports false when the coordinator is closed.
func (c *SearchCoordinator) dispatch(fn func()) bool {
	ack := make(chan struct{})
	select {
	case c.events <- func() { fn(); close(ack) }:
	case <-c.done:
		return false
	}
	select {
	case <-ack:
		return true
	case <-c.done:
		return false
	}
}

// post queues fn on the event loop without waiting. Never call it from the loop.
func (c *SearchCoordinator) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

func (c *SearchCoordinator) async(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// OnQueryChanged records a user edit of the role's query text.
func (c *SearchCoordinator) OnQueryChanged(role model.Role, text string) {
	if !c.validRole(role) {
		return
	}
	c.dispatch(func() {
		ep := c.state.endpoint(role)
		ep.suppression = ep.suppression.onUserEdit()
		ep.suggestions = nil
		ep.queryText = text
		c.pushQuery(role)
		c.publish()
	})
}

// OnSuggestionSelected resolves placeID and makes it the role's address.
// Lookup failures show up as the snapshot's Notice; the role keeps its address.
func (c *SearchCoordinator) OnSuggestionSelected(role model.Role, placeID string) {
	if !c.validRole(role) {
		return
	}
	c.dispatch(func() {
		ep := c.state.endpoint(role)
		ep.suppression = ep.suppression.onProgrammaticChange()
		ep.suggestions = nil
		c.cancelQuery(role)
		if c.route.pending() {
			c.route.invalidate()
			c.routeInterrupted = true
		}

		ctx, generation := c.selections[role].next(c.ctx)
		_ = level.Debug(c.logger).Log("msg", "resolve details", "role", role, "place_id", placeID)
		c.async(func() {
			address, err := c.gateway.ResolveDetails(ctx, placeID)
			c.post(func() { c.applySelection(role, generation, address, err) })
		})
		c.publish()
	})
}

func (c *SearchCoordinator) applySelection(role model.Role, generation uint64, address *model.ResolvedAddress, err error) {
	if !c.selections[role].current(generation) {
		return
	}
	c.selections[role].done(generation)
	if err == nil && address == nil {
		err = definition.ErrLookupFailed
	}
	if err != nil {
		c.surface(&role, definition.LookupFailed(err))
		if c.routeInterrupted {
			c.computeRoute()
		}
		c.publish()
		return
	}

	ep := c.state.endpoint(role)
	ep.address = address
	ep.suggestions = nil
	ep.suppression = ep.suppression.onProgrammaticChange()
	ep.queryText = address.DisplayText()
	c.pushQuery(role)
	c.state.zoom = c.selectionZoom
	c.computeRoute()
	c.publish()
}

// OnClear resets the role to its empty state and drops the route.
func (c *SearchCoordinator) OnClear(role model.Role) {
	if !c.validRole(role) {
		return
	}
	c.dispatch(func() {
		c.state.endpoint(role).reset()
		c.selections[role].invalidate()
		c.cancelQuery(role)
		c.streams[role].forget()
		c.route.invalidate()
		c.routeInterrupted = false
		c.state.route = nil
		c.publish()
	})
}

// OnSwap exchanges pickup and drop-off, then recomputes the route if both are set.
func (c *SearchCoordinator) OnSwap() {
	c.dispatch(func() {
		pickup, dropOff := c.state.endpoint(model.RolePickup), c.state.endpoint(model.RoleDropOff)
		*pickup, *dropOff = *dropOff, *pickup
		for _, role := range model.Roles {
			c.selections[role].invalidate()
			ep := c.state.endpoint(role)
			ep.suppression = ep.suppression.onProgrammaticChange()
			c.pushQuery(role)
		}
		c.route.invalidate()
		c.state.route = nil
		c.computeRoute()
		c.publish()
	})
}

func (c *SearchCoordinator) computeRoute() {
	c.routeInterrupted = false
	if !c.state.bothResolved() {
		return
	}
	origin := c.state.endpoint(model.RolePickup).address.Location
	destination := c.state.endpoint(model.RoleDropOff).address.Location
	ctx, generation := c.route.next(c.ctx)
	_ = level.Debug(c.logger).Log("msg", "compute route", "origin", origin, "destination", destination)
	c.async(func() {
		route, err := c.gateway.ComputeRoute(ctx, origin, destination)
		c.post(func() { c.applyRoute(generation, route, err) })
	})
}

func (c *SearchCoordinator) applyRoute(generation uint64, route *model.RouteInfo, err error) {
	if !c.route.current(generation) {
		return
	}
	c.route.done(generation)
	switch {
	case err != nil:
		// keep the previous route on screen
		c.surface(nil, definition.RouteRequestFailed(err))
	case route == nil:
		_ = level.Info(c.logger).Log("msg", "no route between endpoints")
		c.state.route = nil
	default:
		c.state.route = route
	}
	c.publish()
}

func (c *SearchCoordinator) validRole(role model.Role) bool {
	if role.Valid() {
		return true
	}
	_ = level.Warn(c.logger).Log("msg", "ignoring intent for unknown role", "role", role)
	return false
}

func (c *SearchCoordinator) surface(role *model.Role, err error) {
	c.noticeSeq++
	c.state.notice = &model.Notice{Seq: c.noticeSeq, Role: role, Err: err}
	keyvals := []interface{}{"msg", "search error", "err", err}
	if role != nil {
		keyvals = append(keyvals, "role", *role)
	}
	_ = level.Error(c.logger).Log(keyvals...)
}

// Snapshot returns a copy of the current session state. A closed coordinator
// returns the zero snapshot.
func (c *SearchCoordinator) Snapshot() model.SessionSnapshot {
	var snapshot model.SessionSnapshot
	c.dispatch(func() { snapshot = c.state.snapshot() })
	return snapshot
}

// Subscribe delivers the current snapshot and then every change. Slow readers
// only see the latest snapshot. The channel closes on unsubscribe or Close.
func (c *SearchCoordinator) Subscribe() (<-chan model.SessionSnapshot, func()) {
	ch := make(chan model.SessionSnapshot, 1)
	id := -1
	if !c.dispatch(func() {
		id = c.nextSubID
		c.nextSubID++
		c.subscribers[id] = ch
		ch <- c.state.snapshot()
	}) {
		close(ch)
		return ch, func() {}
	}
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.dispatch(func() {
				if sub, ok := c.subscribers[id]; ok {
					close(sub)
					delete(c.subscribers, id)
				}
			})
		})
	}
}

func (c *SearchCoordinator) publish() {
	if len(c.subscribers) == 0 {
		return
	}
	snapshot := c.state.snapshot()
	for _, ch := range c.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

// Close cancels every pending timer and request and waits for them to finish.
func (c *SearchCoordinator) Close() {
	if !c.closed.CAS(false, true) {
		return
	}
	c.cancel()
	<-c.done
	c.scheduler.Stop()
	c.wg.Wait()
	_ = level.Debug(c.logger).Log("msg", "closed")
}

func (c *SearchCoordinator) Closed() bool {
	return c.closed.Load()
}
