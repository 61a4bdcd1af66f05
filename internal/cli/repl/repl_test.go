package repl

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

// recorder is an Executor that records every command it receives.
type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) exec(_ context.Context, args []string) error {
	r.calls = append(r.calls, args)
	return r.err
}

func run(t *testing.T, input string, exec Executor) string {
	t.Helper()
	var out bytes.Buffer
	r := New(exec, WithIO(strings.NewReader(input), &out))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

// ====================
// Loop control
// ====================

func TestNew(t *testing.T) {
	r := New(nil)
	if r.prompt != DefaultPrompt {
		t.Errorf("prompt = %q, want %q", r.prompt, DefaultPrompt)
	}
	if r.completer == nil {
		t.Error("completer should be initialized")
	}
	if r.History() == nil {
		t.Error("history should be initialized")
	}
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "QUIT\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			run(t, tt.input+"get never\n", rec.exec)
			if tt.input != "" && len(rec.calls) != 0 {
				t.Errorf("commands after exit were executed: %v", rec.calls)
			}
		})
	}
}

func TestREPL_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	var out bytes.Buffer
	r := New(rec.exec, WithIO(strings.NewReader("get k\n"), &out))
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("executed %v after cancellation", rec.calls)
	}
}

func TestREPL_Run_Prompt(t *testing.T) {
	var out bytes.Buffer
	r := New(nil, WithIO(strings.NewReader("exit\n"), &out), WithPrompt("> "))
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "> ") {
		t.Errorf("output = %q, want custom prompt", out.String())
	}
}

// ====================
// Dispatch
// ====================

func TestREPL_Run_Executes(t *testing.T) {
	rec := &recorder{}
	run(t, "set k \"hello world\"\n\n   \nget k\nlast k", rec.exec)

	want := [][]string{
		{"set", "k", "hello world"},
		{"get", "k"},
		{"last", "k"},
	}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if !slices.Equal(rec.calls[i], want[i]) {
			t.Errorf("call %d = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}

func TestREPL_Run_ExecutorError(t *testing.T) {
	rec := &recorder{err: errors.New("boom")}
	out := run(t, "get k\n", rec.exec)
	if !strings.Contains(out, "(error) boom") {
		t.Errorf("output = %q, want error line", out)
	}
}

func TestREPL_Run_TokenizeError(t *testing.T) {
	rec := &recorder{}
	out := run(t, "set k \"open\n", rec.exec)
	if len(rec.calls) != 0 {
		t.Errorf("executed %v for an unbalanced line", rec.calls)
	}
	if !strings.Contains(out, "(error)") {
		t.Errorf("output = %q, want error line", out)
	}
}

func TestREPL_Run_Help(t *testing.T) {
	rec := &recorder{}
	out := run(t, "help\nhelp get\nhelp nope\n", rec.exec)

	for _, want := range []string{"SET key value", "FLUSHDB [SYNC | ASYNC]", "GET key", `unknown command "nope"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if len(rec.calls) != 0 {
		t.Errorf("help reached the executor: %v", rec.calls)
	}
}

func TestREPL_Run_History(t *testing.T) {
	out := run(t, "get a\nget b\nhistory\n", (&recorder{}).exec)
	if !strings.Contains(out, "   1  get a") || !strings.Contains(out, "   2  get b") {
		t.Errorf("history output = %q", out)
	}
}

func TestREPL_Run_Completion(t *testing.T) {
	rec := &recorder{}
	out := run(t, "set k v ex?\nzz?\n", rec.exec)

	if !strings.Contains(out, "ex  exat") {
		t.Errorf("output = %q, want completions", out)
	}
	if !strings.Contains(out, "(no suggestions)") {
		t.Errorf("output = %q, want no-suggestion notice", out)
	}
	if len(rec.calls) != 0 {
		t.Errorf("completion reached the executor: %v", rec.calls)
	}
}

func TestREPL_WithCommand(t *testing.T) {
	rec := &recorder{}
	var out bytes.Buffer
	r := New(rec.exec,
		WithIO(strings.NewReader("help connect\nhelp\ncon?\nconnect db:1\n"), &out),
		WithCommand("connect", "connect [address]"),
	)
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := strings.Count(out.String(), "connect [address]"); got != 2 {
		t.Errorf("synopsis printed %d times, want 2:\n%s", got, out.String())
	}
	if !strings.Contains(out.String(), "connect\n") {
		t.Errorf("completion missing connect:\n%s", out.String())
	}
	if len(rec.calls) != 1 || !slices.Equal(rec.calls[0], []string{"connect", "db:1"}) {
		t.Errorf("calls = %v", rec.calls)
	}
}
