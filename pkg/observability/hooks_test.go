package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	info := RunInfo{RunID: "run", Nodes: 3, GridSize: 10, Workers: 1}

	h := NoopEngineHooks{}
	h.OnRunStart(ctx, info)
	h.OnPassComplete(ctx, info, PassUpward, time.Second, nil)
	h.OnRunComplete(ctx, info, -1.5, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}

	custom := &recordingHooks{}
	SetEngineHooks(custom)
	if Engine() != custom {
		t.Error("SetEngineHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &recordingHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	info := RunInfo{RunID: "run"}
	a, b := &recordingHooks{}, &recordingHooks{}

	m := Multi(a, nil, b)
	m.OnRunStart(ctx, info)
	m.OnPassComplete(ctx, info, PassUpward, time.Millisecond, nil)
	m.OnPassComplete(ctx, info, PassDownward, time.Millisecond, errors.New("boom"))
	m.OnRunComplete(ctx, info, 0, time.Millisecond, nil)

	want := []string{"start", "upward", "downward", "complete"}
	for _, h := range []*recordingHooks{a, b} {
		if len(h.events) != len(want) {
			t.Fatalf("events = %v, want %v", h.events, want)
		}
		for i := range want {
			if h.events[i] != want[i] {
				t.Errorf("events[%d] = %q, want %q", i, h.events[i], want[i])
			}
		}
	}
}

type recordingHooks struct {
	NoopEngineHooks
	mu     sync.Mutex
	events []string
}

func (r *recordingHooks) OnRunStart(context.Context, RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "start")
}

func (r *recordingHooks) OnPassComplete(_ context.Context, _ RunInfo, pass string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, pass)
}

func (r *recordingHooks) OnRunComplete(context.Context, RunInfo, float64, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "complete")
}
