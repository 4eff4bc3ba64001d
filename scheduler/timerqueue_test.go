package scheduler

import (
	"testing"
	"time"

	"github.com/flowsched/flowsched/executor"
	"github.com/flowsched/flowsched/value"
)

func tok(n int) executor.Token {
	return executor.Token{Frontier: executor.FrontierHandle(n)}
}

func TestTimerQueueSetLatchesOff(t *testing.T) {
	q := newTimerQueue[string]()
	now := time.Now()

	if created := q.Set(tok(1), 10*time.Millisecond, value.Some(value.Of(1)), now); !created {
		t.Fatal("first Set should create an entry")
	}
	if created := q.Set(tok(1), 20*time.Millisecond, value.None[value.Value](), now); created {
		t.Fatal("second Set on an existing entry should not create")
	}

	fired := q.Take(now.Add(5 * time.Millisecond))
	if len(fired) != 0 {
		t.Fatalf("timer should not have fired yet, got %v", fired)
	}

	fired = q.Take(now.Add(50 * time.Millisecond))
	if len(fired) != 1 {
		t.Fatalf("expected exactly one firing, got %v", fired)
	}
	if fired[0].data.IsSome() {
		t.Fatal("Set should have latched data to None, not replaced the deadline's data")
	}

	// Set creates an entry only for a token with none pending; a second Set
	// on that entry never creates.
	if created := q.Set(tok(2), 10*time.Millisecond, value.Some(value.Of(2)), now); !created {
		t.Fatal("Set on a fresh token should create")
	}
	if created := q.Set(tok(2), 10*time.Millisecond, value.None[value.Value](), now); created {
		t.Fatal("Set on an existing token never creates")
	}
}

func TestTimerQueueResetDebounces(t *testing.T) {
	q := newTimerQueue[string]()
	now := time.Now()

	q.Reset(tok(1), 10*time.Millisecond, value.Some(value.Of(1)), now)
	q.Reset(tok(1), 10*time.Millisecond, value.Some(value.Of(2)), now.Add(5*time.Millisecond))

	fired := q.Take(now.Add(12 * time.Millisecond))
	if len(fired) != 0 {
		t.Fatalf("reset should have pushed the deadline out, got %v", fired)
	}

	fired = q.Take(now.Add(20 * time.Millisecond))
	if len(fired) != 1 {
		t.Fatalf("expected one firing, got %v", fired)
	}
	v, err := value.Downcast[int](fired[0].data)
	if err != nil || v != 2 {
		t.Fatalf("expected the latest reset's data (2), got %v err=%v", v, err)
	}
}

func TestTimerQueueRepeatRearms(t *testing.T) {
	q := newTimerQueue[string]()
	now := time.Now()

	q.Repeat(tok(1), 10*time.Millisecond, value.Some(value.Of(7)), now)

	fired := q.Take(now.Add(10 * time.Millisecond))
	if len(fired) != 1 || !fired[0].repeated {
		t.Fatalf("expected one repeated firing, got %v", fired)
	}
	if q.Len() != 1 {
		t.Fatalf("repeat timer should have re-armed, Len = %d", q.Len())
	}

	fired = q.Take(now.Add(20 * time.Millisecond))
	if len(fired) != 1 {
		t.Fatalf("expected second firing, got %v", fired)
	}
}

func TestTimerQueueClear(t *testing.T) {
	q := newTimerQueue[string]()
	now := time.Now()

	if q.Clear(tok(1)) {
		t.Fatal("Clear on an absent token should report false")
	}
	q.Set(tok(1), 10*time.Millisecond, value.Some(value.Of(1)), now)
	if !q.Clear(tok(1)) {
		t.Fatal("Clear on a pending token should report true")
	}
	if q.Len() != 0 {
		t.Fatalf("Len = %d after Clear, want 0", q.Len())
	}
}

func TestTimerQueueOrdersByDeadlineThenSeq(t *testing.T) {
	q := newTimerQueue[string]()
	now := time.Now()

	q.Set(tok(1), 20*time.Millisecond, value.Some(value.Of(1)), now)
	q.Set(tok(2), 10*time.Millisecond, value.Some(value.Of(2)), now)
	q.Set(tok(3), 10*time.Millisecond, value.Some(value.Of(3)), now)

	fired := q.Take(now.Add(100 * time.Millisecond))
	if len(fired) != 3 {
		t.Fatalf("expected 3 firings, got %d", len(fired))
	}
	if fired[0].tok != tok(2) || fired[1].tok != tok(3) || fired[2].tok != tok(1) {
		t.Fatalf("firing order = %v, want [2,3,1] order", fired)
	}
}

func TestTimerQueueNextDeadline(t *testing.T) {
	q := newTimerQueue[string]()
	if _, ok := q.NextDeadline(); ok {
		t.Fatal("empty queue should report no next deadline")
	}
	now := time.Now()
	q.Set(tok(1), 10*time.Millisecond, value.Some(value.Of(1)), now)
	d, ok := q.NextDeadline()
	if !ok {
		t.Fatal("expected a next deadline")
	}
	if d.Before(now) {
		t.Fatal("next deadline should be in the future")
	}
}
