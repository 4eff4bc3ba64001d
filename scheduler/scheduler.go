package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/executor"
	"github.com/flowsched/flowsched/observe"
	"github.com/flowsched/flowsched/topology"
	"github.com/flowsched/flowsched/worker"
)

// Scheduler is the top-level reactive dataflow runtime: a built Graph, the
// executor driving it, the worker pool deferred Task outputs run on, the
// timer queue deferred Timer outputs arm, and the session connector new
// items arrive through. Tick/TickDeadline/TickTimeout are its only
// entry points once built (spec.md §4.7–§4.8); everything else happens
// through Sessions running on other goroutines.
//
// A Scheduler is not safe for concurrent Tick calls: exactly one goroutine
// should drive the tick loop at a time, matching the teacher's own
// single-driver engine loop (graph/engine.go).
type Scheduler[I comparable] struct {
	graph  *Graph[I]
	exec   *executor.Executor[I]
	pool   worker.Strategy
	tasks  *taskQueue[I]
	timers *timerQueue[I]
	conn   *connector[I]

	emitter observe.Emitter
	metrics *observe.PrometheusMetrics

	admitBatch    int
	dispatchBatch int

	nextSession    atomic.Uint64
	activeSessions atomic.Int64

	curReport *Report
}

// New builds a Scheduler over g, applying opts over the default
// configuration (work-stealing pool of four workers, 64-deep session
// connector, null Emitter).
func New[I comparable](g *Graph[I], opts ...Option) *Scheduler[I] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Scheduler[I]{
		graph:         g,
		pool:          cfg.buildPool(),
		timers:        newTimerQueue[I](),
		conn:          newConnector[I](cfg.sessionCapacity),
		emitter:       cfg.emitter,
		metrics:       cfg.metrics,
		admitBatch:    cfg.admitBatch,
		dispatchBatch: cfg.dispatchBatch,
	}
	s.tasks = newTaskQueue[I](s.pool, defaultTaskResultCap)
	s.exec = executor.New(g.topo, s.submitTask, s.submitTimer, s.onActionError)
	if cfg.actionBatch > 0 {
		s.exec.ActionBatch = cfg.actionBatch
	}
	return s
}

// nextSessionID issues a fresh sessionID for a new Session, also counting it
// as an active session until its Close is observed.
func (s *Scheduler[I]) nextSessionID() uint64 {
	s.activeSessions.Add(1)
	return s.nextSession.Add(1)
}

// ActiveSessions reports how many Sessions have been created but not yet
// Closed.
func (s *Scheduler[I]) ActiveSessions() int64 { return s.activeSessions.Load() }

// Len reports how many frontiers the executor currently holds in flight.
func (s *Scheduler[I]) Len() int { return s.exec.Len() }

// Total reports how many frontiers the executor has ever created, forks
// included, whether still in flight or already pruned.
func (s *Scheduler[I]) Total() int { return s.exec.Total() }

// IsEmpty reports whether the executor has no in-flight frontiers, no
// timers are pending, and no connector messages are waiting.
func (s *Scheduler[I]) IsEmpty() bool {
	return s.exec.IsEmpty() && s.timers.Len() == 0 && !s.conn.hasPending()
}

func (s *Scheduler[I]) submitTask(tok executor.Token, fn func() (action.Outputs[I], error)) {
	s.tasks.Submit(tok, fn)
}

func (s *Scheduler[I]) submitTimer(tok executor.Token, spec action.TimerSpec) {
	now := time.Now()
	if spec.Op == action.TimerClear {
		if s.timers.Clear(tok) {
			s.exec.ReleaseToken(tok)
		}
		return
	}
	if s.timers.Apply(tok, spec, now) {
		s.exec.RetainToken(tok)
	}
}

func (s *Scheduler[I]) onActionError(n topology.NodeIndex, err error) {
	aerr := &ActionError{Node: n, Cause: err}
	fmt.Fprintf(os.Stderr, "error: %v\n", aerr)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(os.Stderr, "  caused by: %v\n", cause)
	}
	if s.curReport != nil {
		s.curReport.Errors = append(s.curReport.Errors, aerr)
	}
	if s.metrics != nil {
		s.metrics.IncActionError(nodeLabel(n))
	}
	s.emitter.Emit(observe.Event{
		Phase:  "error",
		Action: nodeLabel(n),
		Msg:    err.Error(),
	})
}

func nodeLabel(n topology.NodeIndex) string {
	return "node:" + strconv.Itoa(int(n))
}

// Tick runs exactly one tick of the loop described in spec.md §4.8 and never
// blocks: its waiting phase degenerates into a single non-blocking poll.
func (s *Scheduler[I]) Tick() Report {
	var report Report
	s.tickOnce(&report, time.Now())
	return report
}

// TickDeadline drives the tick loop, blocking in its waiting phase between
// iterations, until deadline has passed, merging every iteration's Report
// into one.
func (s *Scheduler[I]) TickDeadline(deadline time.Time) Report {
	var report Report
	for {
		s.tickOnce(&report, deadline)
		if !time.Now().Before(deadline) {
			return report
		}
	}
}

// TickTimeout is TickDeadline relative to now.
func (s *Scheduler[I]) TickTimeout(d time.Duration) Report {
	return s.TickDeadline(time.Now().Add(d))
}

// tickOnce runs the four phases of spec.md §4.8 once: process completed
// tasks, process fired timers, then exactly one of the running phase or the
// waiting phase, never both. CanMakeProgress is what decides which: if the
// executor has queued work under its concurrency cap, run it (bounded to
// admitBatch/dispatchBatch); otherwise block in the waiting phase instead of
// spinning. Without this branch, a tick that happens to have ready work
// would never reach wait() and a tick that doesn't would busy-loop through
// an empty runningPhase — either way the §5 tick-timeout bound breaks.
func (s *Scheduler[I]) tickOnce(report *Report, waitDeadline time.Time) {
	s.curReport = report
	defer func() { s.curReport = nil }()

	start := time.Now()

	s.processTasks(report)
	s.processTimers(report, start)

	if s.exec.CanMakeProgress() {
		s.runningPhase(report)
	} else {
		s.wait(report, waitDeadline)
	}

	if s.metrics != nil {
		s.metrics.SetFrontierCount(s.exec.Len())
		s.metrics.SetWorkerCounts(s.pool.NumRunning(), s.pool.NumPending())
		s.metrics.ObserveTickDuration(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// processTasks drains every completed deferred Task result into the
// executor.
func (s *Scheduler[I]) processTasks(report *Report) {
	for {
		r, ok := s.tasks.Take()
		if !ok {
			return
		}
		s.exec.TaskComplete(r.tok, r.outputs, r.err)
		report.TasksCompleted++
	}
}

// processTimers fires every timer whose deadline has passed now.
func (s *Scheduler[I]) processTimers(report *Report, now time.Time) {
	for _, f := range s.timers.Take(now) {
		s.exec.CompleteTimer(f.tok, f.data)
		if !f.repeated {
			s.exec.ReleaseToken(f.tok)
		}
		report.TimersFired++
	}
	s.tasks.Update()
}

// runningPhase admits up to admitBatch connector messages and dispatches up
// to dispatchBatch ready actions, once. It deliberately does not loop to
// exhaustion: the two batch sizes are spec.md §4.8's per-tick work budgets,
// a latency knob bounding how much already-ready work one tickOnce call can
// push through before yielding back to the caller. A chain of actions long
// enough to keep producing ready work past dispatchBatch spills into
// subsequent ticks rather than running to completion inline.
func (s *Scheduler[I]) runningPhase(report *Report) {
	s.admit(report, s.admitBatch)
	results := s.exec.Dispatch(s.dispatchBatch)
	for _, r := range results {
		s.exec.Update(r.Token, r.Outputs, r.Err)
		report.Dispatched++
	}
	s.tasks.Update()
}

// admit drains up to budget connector messages into the executor, handling
// Drop messages as session-lifecycle bookkeeping rather than executor
// input.
func (s *Scheduler[I]) admit(report *Report, budget int) int {
	n := 0
	for n < budget {
		msg, ok := s.conn.tryRecv()
		if !ok {
			return n
		}
		s.handleMessage(msg, report)
		n++
	}
	return n
}

func (s *Scheduler[I]) handleMessage(msg message[I], report *Report) {
	defer s.conn.done()
	switch msg.kind {
	case messageItem:
		s.exec.Submit(msg.id, msg.val, msg.sources)
		report.Submitted++
	case messageDrop:
		s.activeSessions.Add(-1)
	}
}

// wait is the tick loop's waiting phase: if deadline has already passed it
// degenerates to a single non-blocking poll (Tick's contract); otherwise it
// blocks on whichever of the connector, the task queue, or the earliest
// timer deadline becomes ready first.
func (s *Scheduler[I]) wait(report *Report, deadline time.Time) {
	now := time.Now()
	if !now.Before(deadline) {
		select {
		case msg := <-s.conn.recvChan():
			s.handleMessage(msg, report)
		case r := <-s.tasks.resultChan():
			s.exec.TaskComplete(r.tok, r.outputs, r.err)
			report.TasksCompleted++
		default:
		}
		return
	}

	timeout := deadline.Sub(now)
	if next, ok := s.timers.NextDeadline(); ok {
		if until := next.Sub(now); until < timeout {
			timeout = until
		}
	}
	if timeout < 0 {
		timeout = 0
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-s.conn.recvChan():
		s.handleMessage(msg, report)
	case r := <-s.tasks.resultChan():
		s.exec.TaskComplete(r.tok, r.outputs, r.err)
		report.TasksCompleted++
	case <-timer.C:
	}
}

// Shutdown stops the worker pool, joining every worker goroutine, then
// flushes the Emitter. It does not drain pending timers or connector
// messages; callers that need a graceful drain should keep ticking until
// IsEmpty before calling Shutdown.
func (s *Scheduler[I]) Shutdown() {
	s.pool.Shutdown()
	_ = s.emitter.Flush(context.Background())
}
