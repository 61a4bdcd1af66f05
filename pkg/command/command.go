package command

import (
	"errors"
	"fmt"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// Command names.
const (
	NameSet     = "SET"
	NameGet     = "GET"
	NameDel     = "DEL"
	NameFlushDB = "FLUSHDB"
)

// Names lists every supported command name.
var Names = []string{NameSet, NameGet, NameDel, NameFlushDB}

var (
	// ErrUnexpectedReply indicates that the store answered with a value the
	// command never produces. It signals a contract violation, not a
	// user error.
	ErrUnexpectedReply = errors.New("command: unexpected reply")

	// ErrNotConvertible indicates a reply that has no Data representation.
	ErrNotConvertible = errors.New("command: value not convertible")
)

// Command is a request to the store. The set of implementations is closed:
// Set, Get, Del and FlushDB.
type Command interface {
	// Name returns the command token, e.g. "SET".
	Name() string

	// Args returns the wire arguments after the name. Every argument is a
	// bulk string.
	Args() []resp.Value

	sealed()
}

// Encode returns the array that carries cmd on the wire: the name followed
// by the arguments.
func Encode(cmd Command) resp.Value {
	args := cmd.Args()
	elems := make([]resp.Value, 0, len(args)+1)
	elems = append(elems, resp.BulkString(cmd.Name()))
	elems = append(elems, args...)
	return resp.Array(elems...)
}

// Serialize returns the wire bytes of cmd.
func Serialize(cmd Command) []byte {
	return resp.Serialize(Encode(cmd))
}

func unexpected(cmd string, v resp.Value) error {
	return fmt.Errorf("%w: %s got %s %s", ErrUnexpectedReply, cmd, v.Kind(), v)
}

func isOK(v resp.Value) bool {
	return v.Kind() == resp.KindSimpleString && v.Text() == "OK"
}
