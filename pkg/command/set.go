package command

import (
	"strconv"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// Mode makes a SET conditional on whether the key exists.
type Mode uint8

const (
	// ModeAlways writes unconditionally.
	ModeAlways Mode = iota
	// ModeIfExists writes only when the key exists (XX).
	ModeIfExists
	// ModeIfAbsent writes only when the key does not exist (NX).
	ModeIfAbsent
)

// Token returns the wire flag of m, or "" for ModeAlways.
func (m Mode) Token() string {
	switch m {
	case ModeIfExists:
		return "XX"
	case ModeIfAbsent:
		return "NX"
	}
	return ""
}

// ExpiryKind selects how a SET expiry is expressed.
type ExpiryKind uint8

const (
	ExpiryNone ExpiryKind = iota
	ExpirySeconds
	ExpiryMilliseconds
	ExpiryAtSeconds
	ExpiryAtMilliseconds
	ExpiryKeepTTL
)

var expiryTokens = [...]string{
	ExpirySeconds:        "EX",
	ExpiryMilliseconds:   "PX",
	ExpiryAtSeconds:      "EXAT",
	ExpiryAtMilliseconds: "PXAT",
	ExpiryKeepTTL:        "KEEPTTL",
}

// Expiry is the optional expiration of a SET. The zero Expiry means none.
type Expiry struct {
	Kind ExpiryKind
	// Value is a relative duration or a unix timestamp, depending on Kind.
	// Unused for ExpiryNone and ExpiryKeepTTL.
	Value uint64
}

// EX expires the key after n seconds.
func EX(n uint64) Expiry { return Expiry{Kind: ExpirySeconds, Value: n} }

// PX expires the key after n milliseconds.
func PX(n uint64) Expiry { return Expiry{Kind: ExpiryMilliseconds, Value: n} }

// EXAT expires the key at unix time n, in seconds.
func EXAT(n uint64) Expiry { return Expiry{Kind: ExpiryAtSeconds, Value: n} }

// PXAT expires the key at unix time n, in milliseconds.
func PXAT(n uint64) Expiry { return Expiry{Kind: ExpiryAtMilliseconds, Value: n} }

// KeepTTL retains the time to live already associated with the key.
func KeepTTL() Expiry { return Expiry{Kind: ExpiryKeepTTL} }

// appendArgs appends the expiry tokens. Unknown kinds append nothing.
func (e Expiry) appendArgs(args []resp.Value) []resp.Value {
	switch e.Kind {
	case ExpiryKeepTTL:
		return append(args, resp.BulkString(expiryTokens[e.Kind]))
	case ExpirySeconds, ExpiryMilliseconds, ExpiryAtSeconds, ExpiryAtMilliseconds:
	default:
		return args
	}
	return append(args,
		resp.BulkString(expiryTokens[e.Kind]),
		resp.BulkString(strconv.FormatUint(e.Value, 10)),
	)
}

// SetOptions are the optional parts of a SET.
type SetOptions struct {
	Mode   Mode
	Get    bool // return the previous value
	Expiry Expiry
}

// SetOption configures a Set built by NewSet.
type SetOption func(*SetOptions)

// WithMode makes the write conditional.
func WithMode(m Mode) SetOption {
	return func(o *SetOptions) { o.Mode = m }
}

// WithGet asks the store to return the previous value.
func WithGet() SetOption {
	return func(o *SetOptions) { o.Get = true }
}

// WithExpiry sets the expiration.
func WithExpiry(e Expiry) SetOption {
	return func(o *SetOptions) { o.Expiry = e }
}

// Set stores a value under a key.
type Set struct {
	Key     string
	Value   string
	Options SetOptions
}

// NewSet returns a SET command. Options may be given in any order.
func NewSet(key, value string, opts ...SetOption) *Set {
	s := &Set{Key: key, Value: value}
	for _, opt := range opts {
		opt(&s.Options)
	}
	return s
}

func (*Set) sealed() {}

// Name implements Command.
func (*Set) Name() string { return NameSet }

// Args returns key, value, then mode, GET and expiry, always in that order.
func (s *Set) Args() []resp.Value {
	args := make([]resp.Value, 0, 6)
	args = append(args, resp.BulkString(s.Key), resp.BulkString(s.Value))
	if tok := s.Options.Mode.Token(); tok != "" {
		args = append(args, resp.BulkString(tok))
	}
	if s.Options.Get {
		args = append(args, resp.BulkString("GET"))
	}
	return s.Options.Expiry.appendArgs(args)
}

// SetOutcome classifies the reply to a SET.
type SetOutcome uint8

const (
	// SetCompleted means the value was written.
	SetCompleted SetOutcome = iota
	// SetAborted means a conditional write did not happen.
	SetAborted
	// SetPrevious means the reply carries the previous value (GET option).
	SetPrevious
)

func (o SetOutcome) String() string {
	switch o {
	case SetCompleted:
		return "completed"
	case SetAborted:
		return "aborted"
	case SetPrevious:
		return "previous"
	}
	return "unknown"
}

// SetResult is the shaped reply to a SET.
type SetResult struct {
	Outcome SetOutcome
	// Previous is the value stored before the write. Only meaningful for
	// SetPrevious; nil when the key did not exist.
	Previous *Data
}

// Shape interprets the reply to s. The rules are applied in order:
//
//  1. GET requested: the reply is the previous value (Null means none).
//  2. Conditional mode and Null: the write was aborted.
//  3. "OK": the write completed.
//
// Any other reply returns ErrUnexpectedReply.
func (s *Set) Shape(v resp.Value) (SetResult, error) {
	if s.Options.Get {
		if v.IsNull() {
			return SetResult{Outcome: SetPrevious}, nil
		}
		d, err := DataFromValue(v)
		if err != nil {
			return SetResult{}, unexpected(NameSet, v)
		}
		return SetResult{Outcome: SetPrevious, Previous: &d}, nil
	}
	if s.Options.Mode != ModeAlways && v.IsNull() {
		return SetResult{Outcome: SetAborted}, nil
	}
	if isOK(v) {
		return SetResult{Outcome: SetCompleted}, nil
	}
	return SetResult{}, unexpected(NameSet, v)
}
