package repl

import (
	"strings"

	"github.com/yndnr/kvwire-go/pkg/command"
)

var builtins = []string{"help", "history", "exit", "quit"}

// Completer suggests command names and option tokens.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	cmds := make([]string, 0, len(command.Names)+len(builtins))
	cmds = append(cmds, command.Names...)
	cmds = append(cmds, builtins...)
	return &Completer{commands: cmds}
}

// Complete returns suggestions for the last word of line. The first word
// completes to a command name; later words complete to that command's
// options. Suggestions match the case of the typed prefix.
func (c *Completer) Complete(line string) []string {
	fields := strings.Fields(line)
	prefix := ""
	if len(fields) > 0 && !strings.HasSuffix(line, " ") {
		prefix = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	}

	candidates := c.commands
	if len(fields) > 0 {
		candidates = command.Options(fields[0])
	}

	lower := prefix != "" && prefix == strings.ToLower(prefix)
	var suggestions []string
	for _, cand := range candidates {
		if !strings.HasPrefix(strings.ToUpper(cand), strings.ToUpper(prefix)) {
			continue
		}
		if lower {
			cand = strings.ToLower(cand)
		}
		suggestions = append(suggestions, cand)
	}
	return suggestions
}
