package observe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// LogEmitter writes each Event as one line to an io.Writer, either in a
// human-readable key=value form or as JSON. It is safe for concurrent use:
// the tick loop is single-threaded, but an Emitter may also be shared with
// a worker pool's error logging path.
type LogEmitter struct {
	mu       sync.Mutex
	w        io.Writer
	jsonMode bool
}

// NewLogEmitter builds a LogEmitter writing to w (os.Stderr if w is nil) in
// text mode, or JSON mode if json is true.
func NewLogEmitter(w io.Writer, json bool) *LogEmitter {
	if w == nil {
		w = os.Stderr
	}
	return &LogEmitter{w: w, jsonMode: json}
}

// Emit implements Emitter.
func (l *LogEmitter) Emit(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.jsonMode {
		l.emitJSON(e)
		return
	}
	l.emitText(e)
}

func (l *LogEmitter) emitText(e Event) {
	fmt.Fprintf(l.w, "[%s] tick=%d", e.Msg, e.Tick)
	if e.Phase != "" {
		fmt.Fprintf(l.w, " phase=%s", e.Phase)
	}
	if e.Action != "" {
		fmt.Fprintf(l.w, " action=%s", e.Action)
	}
	for k, v := range e.Meta {
		fmt.Fprintf(l.w, " %s=%v", k, v)
	}
	fmt.Fprintln(l.w)
}

func (l *LogEmitter) emitJSON(e Event) {
	data, err := json.Marshal(struct {
		Tick   int            `json:"tick"`
		Phase  string         `json:"phase,omitempty"`
		Action string         `json:"action,omitempty"`
		Msg    string         `json:"msg"`
		Meta   map[string]any `json:"meta,omitempty"`
	}{Tick: e.Tick, Phase: e.Phase, Action: e.Action, Msg: e.Msg, Meta: e.Meta})
	if err != nil {
		fmt.Fprintf(l.w, `{"msg":"emit_marshal_error","error":%q}`+"\n", err.Error())
		return
	}
	l.w.Write(data)
	fmt.Fprintln(l.w)
}

// Flush implements Emitter. LogEmitter writes synchronously, so there is
// nothing to flush; it exists to satisfy the interface and honor ctx
// cancellation if a future buffered mode is added.
func (l *LogEmitter) Flush(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
