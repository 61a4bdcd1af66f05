package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is returned by Parse for malformed command lines.
var ErrSyntax = errors.New("command: syntax error")

// Parse builds a Command from textual tokens, e.g.
// []string{"set", "foo", "bar", "px", "1500", "nx"}. The command name and
// option tokens are case-insensitive; keys and values are taken verbatim.
func Parse(tokens []string) (Command, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrSyntax)
	}
	name, args := strings.ToUpper(tokens[0]), tokens[1:]

	switch name {
	case NameSet:
		return parseSet(args)

	case NameGet:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: GET takes exactly one key", ErrSyntax)
		}
		return NewGet(args[0]), nil

	case NameDel:
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: DEL needs at least one key", ErrSyntax)
		}
		return NewDel(args...), nil

	case NameFlushDB:
		if len(args) == 0 {
			return NewFlushDB(false), nil
		}
		if len(args) > 1 {
			return nil, fmt.Errorf("%w: FLUSHDB takes at most one option", ErrSyntax)
		}
		switch strings.ToUpper(args[0]) {
		case "SYNC":
			return NewFlushDB(false), nil
		case "ASYNC":
			return NewFlushDB(true), nil
		}
		return nil, fmt.Errorf("%w: unknown FLUSHDB option %q", ErrSyntax, args[0])
	}

	return nil, fmt.Errorf("%w: unknown command %q", ErrSyntax, tokens[0])
}

func parseSet(args []string) (*Set, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: SET needs a key and a value", ErrSyntax)
	}
	s := NewSet(args[0], args[1])
	opts := &s.Options

	for i := 2; i < len(args); i++ {
		tok := strings.ToUpper(args[i])
		switch tok {
		case "NX", "XX":
			if opts.Mode != ModeAlways {
				return nil, fmt.Errorf("%w: NX and XX may appear once and not together", ErrSyntax)
			}
			opts.Mode = ModeIfAbsent
			if tok == "XX" {
				opts.Mode = ModeIfExists
			}

		case "GET":
			if opts.Get {
				return nil, fmt.Errorf("%w: duplicate GET", ErrSyntax)
			}
			opts.Get = true

		case "KEEPTTL":
			if opts.Expiry.Kind != ExpiryNone {
				return nil, fmt.Errorf("%w: only one expiry option is allowed", ErrSyntax)
			}
			opts.Expiry = KeepTTL()

		case "EX", "PX", "EXAT", "PXAT":
			if opts.Expiry.Kind != ExpiryNone {
				return nil, fmt.Errorf("%w: only one expiry option is allowed", ErrSyntax)
			}
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%w: %s needs a value", ErrSyntax, tok)
			}
			i++
			n, err := strconv.ParseUint(args[i], 10, 64)
			if err != nil || n == 0 {
				return nil, fmt.Errorf("%w: invalid %s value %q", ErrSyntax, tok, args[i])
			}
			switch tok {
			case "EX":
				opts.Expiry = EX(n)
			case "PX":
				opts.Expiry = PX(n)
			case "EXAT":
				opts.Expiry = EXAT(n)
			case "PXAT":
				opts.Expiry = PXAT(n)
			}

		default:
			return nil, fmt.Errorf("%w: unknown SET option %q", ErrSyntax, args[i])
		}
	}
	return s, nil
}

var (
	optionTokens = map[string][]string{
		NameSet:     {"NX", "XX", "GET", "EX", "PX", "EXAT", "PXAT", "KEEPTTL"},
		NameFlushDB: {"SYNC", "ASYNC"},
	}
	synopses = map[string]string{
		NameSet:     "SET key value [NX | XX] [GET] [EX seconds | PX milliseconds | EXAT unix-seconds | PXAT unix-milliseconds | KEEPTTL]",
		NameGet:     "GET key",
		NameDel:     "DEL key [key ...]",
		NameFlushDB: "FLUSHDB [SYNC | ASYNC]",
	}
)

// Options returns the option tokens Parse accepts for the named command.
func Options(name string) []string {
	return optionTokens[strings.ToUpper(name)]
}

// Synopsis returns the usage line of the named command, or "" if the
// command is unknown.
func Synopsis(name string) string {
	return synopses[strings.ToUpper(name)]
}
