package emit

import (
	"sort"
	"sync"
	"testing"
)

func TestBufferedEmitter_History(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{RunID: "run-1", Stage: "generate", Msg: "generate_start"})
	b.Emit(Event{RunID: "run-1", Stage: "segment", Msg: "segment_done"})
	b.Emit(Event{RunID: "run-2", Stage: "generate", Msg: "generate_start"})

	history := b.GetHistory("run-1")
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].Msg != "generate_start" || history[1].Msg != "segment_done" {
		t.Errorf("events out of order: %+v", history)
	}

	if got := b.GetHistory("missing"); got == nil || len(got) != 0 {
		t.Errorf("GetHistory(missing) = %v, want empty non-nil slice", got)
	}
}

func TestBufferedEmitter_ReturnsCopy(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{RunID: "run-1", Msg: "generate_start"})

	history := b.GetHistory("run-1")
	history[0].Msg = "mutated"

	if got := b.GetHistory("run-1")[0].Msg; got != "generate_start" {
		t.Errorf("stored event was modified: %q", got)
	}
}

func TestBufferedEmitter_Filter(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{RunID: "run-1", Stage: "generate", Msg: "generate_start"})
	b.Emit(Event{RunID: "run-1", Stage: "segment", Msg: "segment_done"})
	b.Emit(Event{RunID: "run-1", Stage: "generate", Msg: "generate_done"})

	tests := []struct {
		name   string
		filter HistoryFilter
		want   int
	}{
		{"empty filter", HistoryFilter{}, 3},
		{"by stage", HistoryFilter{Stage: "generate"}, 2},
		{"by msg", HistoryFilter{Msg: "segment_done"}, 1},
		{"stage and msg", HistoryFilter{Stage: "segment", Msg: "generate_done"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(b.GetHistoryWithFilter("run-1", tt.filter)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestBufferedEmitter_Clear(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{RunID: "run-1", Msg: "a"})
	b.Emit(Event{RunID: "run-2", Msg: "b"})

	b.Clear("run-1")
	ids := b.RunIDs()
	if len(ids) != 1 || ids[0] != "run-2" {
		t.Errorf("RunIDs after Clear(run-1) = %v, want [run-2]", ids)
	}

	b.Clear("")
	if ids := b.RunIDs(); len(ids) != 0 {
		t.Errorf("RunIDs after Clear(\"\") = %v, want empty", ids)
	}
}

func TestBufferedEmitter_Concurrent(t *testing.T) {
	b := NewBufferedEmitter()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Emit(Event{RunID: "run-1", Msg: "tick"})
		}()
	}
	wg.Wait()

	if got := len(b.GetHistory("run-1")); got != 50 {
		t.Errorf("got %d events, want 50", got)
	}
}

func TestMultiEmitter_FansOut(t *testing.T) {
	a := NewBufferedEmitter()
	b := NewBufferedEmitter()
	m := NewMultiEmitter(a, nil, b, NewNullEmitter())

	m.Emit(Event{RunID: "run-1", Msg: "generate_start"})

	for name, e := range map[string]*BufferedEmitter{"a": a, "b": b} {
		if got := len(e.GetHistory("run-1")); got != 1 {
			t.Errorf("emitter %s got %d events, want 1", name, got)
		}
	}

	ids := a.RunIDs()
	sort.Strings(ids)
	if len(ids) != 1 || ids[0] != "run-1" {
		t.Errorf("RunIDs = %v", ids)
	}
}
