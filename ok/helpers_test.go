package ok

import (
	"strings"
	"testing"
)

func newTestFactory(t *testing.T) *Factory {
	t.Helper()
	f, err := NewFactory(Config{Logf: t.Logf})
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	return f
}

// eventLog records triggered events as "name arg1 arg2" lines.
type eventLog struct {
	entries []string
}

func (l *eventLog) recorder(event string) *Function {
	return NewFunc("record "+event, func(call *Call, args []Value) (Value, error) {
		parts := []string{event}
		for _, arg := range args {
			parts = append(parts, arg.String())
		}
		l.entries = append(l.entries, strings.Join(parts, " "))
		return NewNil(), nil
	})
}

func recordEvents(h *Hub, events ...string) *eventLog {
	log := &eventLog{}
	for _, event := range events {
		h.On(event, log.recorder(event))
	}
	return log
}

func assertEntries(t *testing.T, log *eventLog, want ...string) {
	t.Helper()
	if len(log.entries) != len(want) {
		t.Fatalf("expected events %q, got %q", want, log.entries)
	}
	for i := range want {
		if log.entries[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q (all: %q)", i, want[i], log.entries[i], log.entries)
		}
	}
}

func assertValues(t *testing.T, got []Value, want ...Value) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", NewArray(want), NewArray(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("index %d: expected %v, got %v (all: %v)", i, want[i], got[i], NewArray(got))
		}
	}
}

func str(s string) Value { return NewString(s) }

func num(n int) Value { return NewInt(int64(n)) }

func mustInvoke(t *testing.T, inst *Instance, name string, args ...Value) Value {
	t.Helper()
	v, err := inst.Invoke(name, args...)
	if err != nil {
		t.Fatalf("invoke %s: %v", name, err)
	}
	return v
}
