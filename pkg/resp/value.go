package resp

import (
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the wire type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindBigInteger
	KindDouble
	KindSimpleString
	KindSimpleError
	KindBulkString
	KindBulkError
	KindArray
)

var kindNames = [...]string{
	KindNull:         "null",
	KindBoolean:      "boolean",
	KindInteger:      "integer",
	KindBigInteger:   "big-integer",
	KindDouble:       "double",
	KindSimpleString: "simple-string",
	KindSimpleError:  "simple-error",
	KindBulkString:   "bulk-string",
	KindBulkError:    "bulk-error",
	KindArray:        "array",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single RESP value. The zero Value is Null.
//
// Values are immutable: constructors copy their inputs and accessors
// return copies of aggregate payloads.
type Value struct {
	kind  Kind
	text  string
	num   int64
	dbl   float64
	big   *big.Int
	elems []Value
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBoolean}
	if b {
		v.num = 1
	}
	return v
}

// Int returns a 64-bit integer value.
func Int(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

// BigInt returns an arbitrary-precision integer value.
// A nil n is treated as zero.
func BigInt(n *big.Int) Value {
	b := new(big.Int)
	if n != nil {
		b.Set(n)
	}
	return Value{kind: KindBigInteger, big: b}
}

// ParseBigInt returns a big integer value from its signed decimal text.
func ParseBigInt(s string) (Value, error) {
	n, err := parseBigDecimal(s)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: KindBigInteger, big: n}, nil
}

// Double returns a 64-bit float value. Infinities and NaN are allowed.
func Double(f float64) Value {
	return Value{kind: KindDouble, dbl: f}
}

// SimpleString returns a simple string value.
// CR and LF are replaced with spaces since simple types are line-delimited.
func SimpleString(s string) Value {
	return Value{kind: KindSimpleString, text: sanitizeLine(s)}
}

// SimpleError returns a simple error value.
// CR and LF are replaced with spaces since simple types are line-delimited.
func SimpleError(s string) Value {
	return Value{kind: KindSimpleError, text: sanitizeLine(s)}
}

// BulkString returns a length-prefixed string value. It may be empty and
// may contain any bytes.
func BulkString(s string) Value {
	return Value{kind: KindBulkString, text: s}
}

// BulkError returns a length-prefixed error value.
func BulkError(s string) Value {
	return Value{kind: KindBulkError, text: s}
}

// Array returns an array holding a copy of elems.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: slices.Clone(elems)}
}

// Strings returns an array of bulk strings.
func Strings(items ...string) Value {
	elems := make([]Value, len(items))
	for i, s := range items {
		elems[i] = BulkString(s)
	}
	return Value{kind: KindArray, elems: elems}
}

// Kind returns the wire type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsError reports whether v is a simple or bulk error.
func (v Value) IsError() bool {
	return v.kind == KindSimpleError || v.kind == KindBulkError
}

// Bool returns the payload of a boolean value.
func (v Value) Bool() bool { return v.kind == KindBoolean && v.num != 0 }

// Int returns the payload of an integer value.
func (v Value) Int() int64 {
	if v.kind != KindInteger {
		return 0
	}
	return v.num
}

// BigInt returns a copy of the payload of a big integer value, or nil.
func (v Value) BigInt() *big.Int {
	if v.kind != KindBigInteger {
		return nil
	}
	return new(big.Int).Set(v.big)
}

// Float returns the payload of a double value.
func (v Value) Float() float64 {
	if v.kind != KindDouble {
		return 0
	}
	return v.dbl
}

// Text returns the payload of a simple or bulk string or error.
func (v Value) Text() string {
	switch v.kind {
	case KindSimpleString, KindSimpleError, KindBulkString, KindBulkError:
		return v.text
	}
	return ""
}

// Len returns the number of elements of an array, or 0.
func (v Value) Len() int { return len(v.elems) }

// Index returns the i-th element of an array.
func (v Value) Index(i int) Value { return v.elems[i] }

// Elems returns a copy of the elements of an array.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.elems)
}

// Err returns a *ServerError for error values and nil otherwise.
func (v Value) Err() error {
	if !v.IsError() {
		return nil
	}
	return &ServerError{Kind: v.kind, Message: v.text}
}

// String renders v for diagnostics: null, "bulk", simple text, numbers,
// true/false and [a,b] for arrays.
func (v Value) String() string {
	var sb strings.Builder
	v.display(&sb)
	return sb.String()
}

func (v Value) display(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBoolean:
		sb.WriteString(strconv.FormatBool(v.Bool()))
	case KindInteger:
		sb.WriteString(strconv.FormatInt(v.num, 10))
	case KindBigInteger:
		sb.WriteString(v.big.String())
	case KindDouble:
		sb.WriteString(FormatDouble(v.dbl))
	case KindBulkString:
		sb.WriteByte('"')
		sb.WriteString(v.text)
		sb.WriteByte('"')
	case KindSimpleString, KindSimpleError, KindBulkError:
		sb.WriteString(v.text)
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.display(sb)
		}
		sb.WriteByte(']')
	}
}

// FormatDouble returns the wire text of f: "inf", "-inf", "nan" or the
// shortest decimal that parses back to f.
func FormatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sanitizeLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' {
			return ' '
		}
		return r
	}, s)
}
