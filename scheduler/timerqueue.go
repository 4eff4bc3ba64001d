package scheduler

import (
	"container/heap"
	"time"

	"github.com/flowsched/flowsched/action"
	"github.com/flowsched/flowsched/executor"
	"github.com/flowsched/flowsched/value"
)

// timerEntry is one pending deadline-bound deferred output (spec.md §4.4).
// interval > 0 marks a Repeat timer, re-armed after every firing.
type timerEntry[I comparable] struct {
	tok      executor.Token
	deadline time.Time
	interval time.Duration
	data     value.Option[value.Value]
	seq      int64
	index    int
}

// timerHeap orders pending timers by deadline, tied-broken by
// insertion-order sequence number, matching spec.md §4.4's "ties by
// token-insertion order." It is a direct structural generalization of the
// teacher's workHeap (graph/scheduler.go), which orders WorkItems by a
// different sortable field (OrderKey) but uses the identical
// container/heap shape.
type timerHeap[I comparable] []*timerEntry[I]

func (h timerHeap[I]) Len() int { return len(h) }

func (h timerHeap[I]) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap[I]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap[I]) Push(x any) {
	e := x.(*timerEntry[I])
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap[I]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// fired is one timer entry whose deadline has passed, returned by Take.
type fired[I comparable] struct {
	tok      executor.Token
	data     value.Option[value.Value]
	repeated bool
}

// timerQueue implements the four timer operations of spec.md §4.4 over a
// deadline-ordered heap keyed by Token.
type timerQueue[I comparable] struct {
	byToken map[executor.Token]*timerEntry[I]
	heap    timerHeap[I]
	nextSeq int64
}

func newTimerQueue[I comparable]() *timerQueue[I] {
	return &timerQueue[I]{byToken: make(map[executor.Token]*timerEntry[I])}
}

// Set creates a timer if none exists for tok, or updates only its data if
// one does (the deadline is preserved). Once data is absent, later Sets
// cannot replace it — a latching off switch. Reports whether this call
// created a new entry.
func (q *timerQueue[I]) Set(tok executor.Token, deadline time.Duration, data value.Option[value.Value], now time.Time) bool {
	if e, ok := q.byToken[tok]; ok {
		if e.data.IsNone() {
			return false
		}
		e.data = data
		return false
	}
	q.insert(tok, now.Add(deadline), 0, data)
	return true
}

// Reset unconditionally replaces both deadline and data (debounce
// semantics). Reports whether this call created a new entry.
func (q *timerQueue[I]) Reset(tok executor.Token, deadline time.Duration, data value.Option[value.Value], now time.Time) bool {
	if e, ok := q.byToken[tok]; ok {
		e.deadline = now.Add(deadline)
		e.data = data
		heap.Fix(&q.heap, e.index)
		return false
	}
	q.insert(tok, now.Add(deadline), 0, data)
	return true
}

// Repeat behaves like Set but the queue auto-rearms the timer at
// now+interval after every firing. Reports whether this call created a new
// entry.
func (q *timerQueue[I]) Repeat(tok executor.Token, interval time.Duration, data value.Option[value.Value], now time.Time) bool {
	if e, ok := q.byToken[tok]; ok {
		if e.data.IsNone() {
			return false
		}
		e.data = data
		e.interval = interval
		return false
	}
	q.insert(tok, now.Add(interval), interval, data)
	return true
}

// Clear removes any pending timer for tok. Reports whether one existed.
func (q *timerQueue[I]) Clear(tok executor.Token) bool {
	e, ok := q.byToken[tok]
	if !ok {
		return false
	}
	q.remove(e)
	return true
}

// Apply dispatches a TimerSpec's operation to the matching queue method.
func (q *timerQueue[I]) Apply(tok executor.Token, spec action.TimerSpec, now time.Time) bool {
	switch spec.Op {
	case action.TimerSet:
		return q.Set(tok, spec.Deadline, spec.Data, now)
	case action.TimerReset:
		return q.Reset(tok, spec.Deadline, spec.Data, now)
	case action.TimerRepeat:
		return q.Repeat(tok, spec.Interval, spec.Data, now)
	case action.TimerClear:
		return q.Clear(tok)
	default:
		return false
	}
}

func (q *timerQueue[I]) insert(tok executor.Token, deadline time.Time, interval time.Duration, data value.Option[value.Value]) {
	e := &timerEntry[I]{tok: tok, deadline: deadline, interval: interval, data: data, seq: q.nextSeq}
	q.nextSeq++
	q.byToken[tok] = e
	heap.Push(&q.heap, e)
}

func (q *timerQueue[I]) remove(e *timerEntry[I]) {
	heap.Remove(&q.heap, e.index)
	delete(q.byToken, e.tok)
}

// Take pops every entry whose deadline has passed now, in deadline order,
// re-inserting Repeat timers at now+interval.
func (q *timerQueue[I]) Take(now time.Time) []fired[I] {
	var out []fired[I]
	for len(q.heap) > 0 && !q.heap[0].deadline.After(now) {
		e := heap.Pop(&q.heap).(*timerEntry[I])
		delete(q.byToken, e.tok)
		rep := e.interval > 0
		out = append(out, fired[I]{tok: e.tok, data: e.data, repeated: rep})
		if rep {
			q.insert(e.tok, now.Add(e.interval), e.interval, e.data)
		}
	}
	return out
}

// NextDeadline returns the earliest pending deadline, the tick loop's wake
// target in its waiting phase.
func (q *timerQueue[I]) NextDeadline() (time.Time, bool) {
	if len(q.heap) == 0 {
		return time.Time{}, false
	}
	return q.heap[0].deadline, true
}

// Len reports how many timers are currently pending.
func (q *timerQueue[I]) Len() int { return len(q.heap) }
