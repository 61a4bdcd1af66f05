package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/kvwire-go/pkg/command"
)

// DefaultPrompt is printed before each line.
const DefaultPrompt = "kvwire> "

// Executor runs one tokenized command line.
type Executor func(ctx context.Context, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	completer *Completer
	history   *History
	exec      Executor
	extra     []extraCommand
}

// extraCommand is a command the executor handles besides the store
// commands, listed in help and completion.
type extraCommand struct {
	name     string
	synopsis string
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithPrompt sets the prompt.
func WithPrompt(prompt string) Option {
	return func(r *REPL) { r.prompt = prompt }
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) { r.history = h }
}

// WithCommand lists an executor command in help and completion.
func WithCommand(name, synopsis string) Option {
	return func(r *REPL) {
		r.extra = append(r.extra, extraCommand{name: name, synopsis: synopsis})
		r.completer.commands = append(r.completer.commands, name)
	}
}

// New creates a new REPL instance that runs commands with exec.
func New(exec Executor, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		prompt:    DefaultPrompt,
		completer: NewCompleter(),
		history:   NewHistory("", 0),
		exec:      exec,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// History returns the history store.
func (r *REPL) History() *History {
	return r.history
}

// Run starts the REPL loop. It returns nil on exit, quit, end of input or
// when ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.history.Add(line)

		if done := r.dispatch(ctx, line); done {
			return nil
		}
	}
}

// dispatch handles one line and reports whether the loop should end.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	if strings.HasSuffix(line, "?") {
		r.printCompletions(strings.TrimSuffix(line, "?"))
		return false
	}

	args, err := Split(line)
	if err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return true
	case "help":
		r.printHelp(args[1:])
		return false
	case "history":
		for i, entry := range r.history.Entries() {
			fmt.Fprintf(r.output, "%4d  %s\n", i+1, entry)
		}
		return false
	}

	if err := r.exec(ctx, args); err != nil {
		fmt.Fprintf(r.output, "(error) %v\n", err)
	}
	return false
}

func (r *REPL) printCompletions(line string) {
	suggestions := r.completer.Complete(line)
	if len(suggestions) == 0 {
		fmt.Fprintln(r.output, "(no suggestions)")
		return
	}
	fmt.Fprintln(r.output, strings.Join(suggestions, "  "))
}

func (r *REPL) printHelp(args []string) {
	if len(args) > 0 {
		if s := r.synopsis(args[0]); s != "" {
			fmt.Fprintln(r.output, s)
			return
		}
		fmt.Fprintf(r.output, "(error) unknown command %q\n", args[0])
		return
	}
	for _, name := range command.Names {
		fmt.Fprintln(r.output, command.Synopsis(name))
	}
	for _, e := range r.extra {
		fmt.Fprintln(r.output, e.synopsis)
	}
	fmt.Fprintln(r.output, "help [command]  history  exit")
	fmt.Fprintln(r.output, `End a line with "?" to list completions.`)
}

func (r *REPL) synopsis(name string) string {
	if s := command.Synopsis(name); s != "" {
		return s
	}
	for _, e := range r.extra {
		if strings.EqualFold(e.name, name) {
			return e.synopsis
		}
	}
	return ""
}
