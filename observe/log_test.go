package observe

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogEmitterText(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, false)
	e.Emit(Event{Tick: 3, Phase: "running", Action: "square", Msg: "dispatch"})

	out := buf.String()
	if !strings.Contains(out, "[dispatch]") || !strings.Contains(out, "tick=3") || !strings.Contains(out, "action=square") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestLogEmitterJSON(t *testing.T) {
	var buf bytes.Buffer
	e := NewLogEmitter(&buf, true)
	e.Emit(Event{Tick: 1, Msg: "tick_start"})

	out := buf.String()
	if !strings.Contains(out, `"msg":"tick_start"`) {
		t.Fatalf("unexpected json output: %q", out)
	}
}

func TestLogEmitterDefaultsToStderr(t *testing.T) {
	e := NewLogEmitter(nil, false)
	if e.w != os.Stderr {
		t.Fatal("expected the default writer to be os.Stderr")
	}
}
