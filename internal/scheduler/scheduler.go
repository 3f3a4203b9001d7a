package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/jonboulle/clockwork"
)

type jobScheduler struct {
	logger log.Logger
	clock  clockwork.Clock
	wg     *sync.WaitGroup

	mu   sync.Mutex
	jobs map[interface{}]*scheduled
}

type job struct {
	id   interface{} // job ID
	task func(ctx context.Context)
}

type scheduled struct {
	job    *job
	cancel context.CancelFunc
}

type Scheduler interface {
	NewJob(id interface{}, task func(ctx context.Context)) *job
	AddOneShot(ctx context.Context, job *job, duration time.Duration)
	Cancel(jobId interface{})
	Pending(jobId interface{}) bool
	Stop()
}

// AddOneShot runs the job once after duration. The timer is armed before
// AddOneShot returns. A pending job with the same ID is cancelled first.
func (js *jobScheduler) AddOneShot(ctx context.Context, job *job, duration time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	entry := &scheduled{job: job, cancel: cancel}

	js.mu.Lock()
	if previous, ok := js.jobs[job.id]; ok {
		previous.cancel()
	}
	js.jobs[job.id] = entry
	js.mu.Unlock()

	timer := js.clock.NewTimer(duration)
	_ = level.Debug(js.logger).Log("msg", "added one shot job", "id", job.id, "after", duration)

	js.wg.Add(1)
	go js.processOneShot(ctx, entry, timer)
}

func (js *jobScheduler) Cancel(jobId interface{}) {
	js.mu.Lock()
	entry, ok := js.jobs[jobId]
	if ok {
		delete(js.jobs, jobId)
	}
	js.mu.Unlock()
	if ok {
		entry.cancel()
		_ = level.Debug(js.logger).Log("msg", "cancelled job", "id", jobId)
	}
}

func (js *jobScheduler) Pending(jobId interface{}) bool {
	js.mu.Lock()
	defer js.mu.Unlock()
	_, ok := js.jobs[jobId]
	return ok
}

func (js *jobScheduler) Stop() {
	js.mu.Lock()
	for id, entry := range js.jobs {
		entry.cancel()
		delete(js.jobs, id)
	}
	js.mu.Unlock()
	js.wg.Wait()
	_ = level.Debug(js.logger).Log("msg", "scheduler stopped")
}

func (js *jobScheduler) processOneShot(ctx context.Context, entry *scheduled, timer clockwork.Timer) {
	defer js.wg.Done()
	defer js.release(entry)
	select {
	case <-timer.Chan():
		if ctx.Err() != nil {
			return
		}
		entry.job.task(ctx)
	case <-ctx.Done():
		timer.Stop()
	}
}

// release forgets the entry unless a newer job has taken its ID.
func (js *jobScheduler) release(entry *scheduled) {
	entry.cancel()
	js.mu.Lock()
	if current, ok := js.jobs[entry.job.id]; ok && current == entry {
		delete(js.jobs, entry.job.id)
	}
	js.mu.Unlock()
}

func (js *jobScheduler) NewJob(id interface{}, task func(ctx context.Context)) *job {
	return &job{id, task}
}

func New(logger log.Logger, clock clockwork.Clock) Scheduler {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &jobScheduler{
		logger: log.With(logger, "component", "scheduler"),
		clock:  clock,
		wg:     new(sync.WaitGroup),
		jobs:   make(map[interface{}]*scheduled),
	}
}
