package model

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockChatModel(t *testing.T) {
	t.Run("returns responses in order then repeats last", func(t *testing.T) {
		m := &MockChatModel{Responses: []ChatOut{{Text: "one"}, {Text: "two"}}}
		ctx := context.Background()

		for _, want := range []string{"one", "two", "two"} {
			out, err := m.Chat(ctx, []Message{{Role: RoleUser, Content: "hi"}})
			if err != nil {
				t.Fatalf("Chat: %v", err)
			}
			if out.Text != want {
				t.Errorf("Text = %q, want %q", out.Text, want)
			}
		}
		if m.CallCount() != 3 {
			t.Errorf("CallCount = %d, want 3", m.CallCount())
		}

		m.Reset()
		if m.CallCount() != 0 {
			t.Error("Reset did not clear calls")
		}
		out, _ := m.Chat(ctx, nil)
		if out.Text != "one" {
			t.Errorf("after Reset Text = %q, want one", out.Text)
		}
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("boom")
		m := &MockChatModel{Err: boom}
		if _, err := m.Chat(context.Background(), nil); !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		m := &MockChatModel{}
		if _, err := m.Chat(ctx, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v", err)
		}
		if m.CallCount() != 0 {
			t.Error("canceled call was recorded")
		}
	})
}

func TestSplitSystem(t *testing.T) {
	system, rest := SplitSystem([]Message{
		{Role: RoleSystem, Content: "a"},
		{Role: RoleUser, Content: "u1"},
		{Role: RoleSystem, Content: "b"},
		{Role: RoleAssistant, Content: "x"},
	})
	if system != "a\n\nb" {
		t.Errorf("system = %q", system)
	}
	if len(rest) != 2 || rest[0].Content != "u1" || rest[1].Content != "x" {
		t.Errorf("rest = %+v", rest)
	}
}

func TestRetrier_Do(t *testing.T) {
	fast := Retrier{Provider: "Test", MaxRetries: 2, Delay: time.Millisecond}

	tests := []struct {
		name      string
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"success first try", nil, 1, false},
		{"transient then success", []error{errors.New("connection reset")}, 2, false},
		{"rate limit then success", []error{&RateLimitError{Provider: "Test", Err: errors.New("slow down")}}, 2, false},
		{"permanent", []error{errors.New("invalid api key")}, 1, true},
		{"exhausted", []error{errors.New("503"), errors.New("503"), errors.New("503"), errors.New("503")}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			out, err := fast.Do(context.Background(), func(context.Context) (ChatOut, error) {
				calls++
				if calls <= len(tt.errs) {
					return ChatOut{}, tt.errs[calls-1]
				}
				return ChatOut{Text: "ok"}, nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil || out.Text != "ok" {
				t.Errorf("Do = %+v, %v", out, err)
			}
		})
	}
}

func TestRetrier_StopsOnCancel(t *testing.T) {
	r := Retrier{Provider: "Test", MaxRetries: 5, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := r.Do(ctx, func(context.Context) (ChatOut, error) {
		calls++
		cancel()
		return ChatOut{}, errors.New("timeout")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("request timeout"), true},
		{errors.New("502 bad gateway"), true},
		{errors.New("server returned 503"), true},
		{errors.New("max_tokens 5000 exceeded"), false},
		{errors.New("context length 15023 too long"), false},
		{errors.New("unauthorized"), false},
		{&StatusError{Provider: "x", StatusCode: 400, Err: errors.New("bad request 500 chars")}, false},
		{&StatusError{Provider: "x", StatusCode: 503, Err: errors.New("unavailable")}, true},
		{&StatusError{Provider: "x", StatusCode: 408, Err: errors.New("slow")}, true},
		{context.Canceled, false},
		{&RateLimitError{Provider: "x", Err: errors.New("429")}, true},
	}
	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestHTTPError(t *testing.T) {
	base := errors.New("boom")

	var rl *RateLimitError
	if !errors.As(HTTPError("p", 429, base), &rl) {
		t.Error("429 not mapped to RateLimitError")
	}

	var se *StatusError
	if err := HTTPError("p", 400, base); !errors.As(err, &se) || se.StatusCode != 400 {
		t.Errorf("HTTPError(400) = %v, want StatusError 400", err)
	}
	if IsTransient(HTTPError("p", 400, base)) {
		t.Error("400 should not be retried")
	}

	if err := HTTPError("p", 0, base); err != base {
		t.Errorf("HTTPError(0) = %v, want original error", err)
	}
}
