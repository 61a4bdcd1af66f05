package repl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
	ErrUnbalancedQuotes = errors.New("repl: unbalanced quotes")

	// ErrInvalidEscape is returned for an unknown escape in double quotes.
	ErrInvalidEscape = errors.New("repl: invalid escape sequence")
)

// Split breaks a line into arguments. Arguments are separated by
// whitespace. Double quotes allow Go escape sequences (\n, \x00, \");
// single quotes take their content literally. Adjacent quoted and bare
// parts join into one argument, so a"b c"d is one argument.
func Split(line string) ([]string, error) {
	var (
		args  []string
		cur   strings.Builder
		inArg bool
	)

	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
			i++

		case c == '"':
			end, s, err := scanDouble(line, i+1)
			if err != nil {
				return nil, err
			}
			cur.WriteString(s)
			inArg = true
			i = end + 1

		case c == '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, ErrUnbalancedQuotes
			}
			cur.WriteString(line[i+1 : i+1+end])
			inArg = true
			i += end + 2

		default:
			cur.WriteByte(c)
			inArg = true
			i++
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

// scanDouble reads a double-quoted string starting after the opening
// quote and returns the index of the closing quote and the unescaped text.
func scanDouble(s string, start int) (int, string, error) {
	var sb strings.Builder
	i := start
	for i < len(s) {
		switch s[i] {
		case '"':
			return i, sb.String(), nil
		case '\\':
			if i+1 >= len(s) {
				return 0, "", ErrUnbalancedQuotes
			}
			value, multibyte, tail, err := strconv.UnquoteChar(s[i:], '"')
			if err != nil {
				return 0, "", fmt.Errorf("%w: %q", ErrInvalidEscape, s[i:min(i+4, len(s))])
			}
			// \xff is a raw byte, \u00ff a UTF-8 encoded rune.
			if multibyte {
				sb.WriteRune(value)
			} else {
				sb.WriteByte(byte(value))
			}
			i = len(s) - len(tail)
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return 0, "", ErrUnbalancedQuotes
}
