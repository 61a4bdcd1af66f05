package resp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"slices"
	"strconv"
)

// Decoder limits. They bound memory and stack use on adversarial input.
const (
	// DefaultMaxDepth limits array nesting.
	DefaultMaxDepth = 64

	// DefaultMaxBulkLen matches the store's default proto-max-bulk-len (512MB).
	DefaultMaxBulkLen = 512 * 1024 * 1024

	// DefaultMaxArrayLen limits the declared element count of one array.
	DefaultMaxArrayLen = 1 << 24

	// DefaultMaxLineLen limits simple types and headers (64KB).
	DefaultMaxLineLen = 64 * 1024
)

type limits struct {
	maxDepth    int
	maxBulkLen  int
	maxArrayLen int
	maxLineLen  int
}

func defaultLimits() limits {
	return limits{
		maxDepth:    DefaultMaxDepth,
		maxBulkLen:  DefaultMaxBulkLen,
		maxArrayLen: DefaultMaxArrayLen,
		maxLineLen:  DefaultMaxLineLen,
	}
}

// DecoderOption configures a Decoder.
type DecoderOption func(*limits)

// WithMaxDepth sets the maximum array nesting depth.
func WithMaxDepth(n int) DecoderOption {
	return func(l *limits) {
		if n > 0 {
			l.maxDepth = n
		}
	}
}

// WithMaxBulkLen sets the maximum payload length of bulk strings and errors.
func WithMaxBulkLen(n int) DecoderOption {
	return func(l *limits) {
		if n >= 0 {
			l.maxBulkLen = n
		}
	}
}

// WithMaxArrayLen sets the maximum declared element count of an array.
func WithMaxArrayLen(n int) DecoderOption {
	return func(l *limits) {
		if n >= 0 {
			l.maxArrayLen = n
		}
	}
}

// WithMaxLineLen sets the maximum length of a CRLF-terminated line.
func WithMaxLineLen(n int) DecoderOption {
	return func(l *limits) {
		if n > 0 {
			l.maxLineLen = n
		}
	}
}

// Parse parses exactly one value from the start of b. Bytes after the
// first complete value are ignored.
func Parse(b []byte, opts ...DecoderOption) (Value, error) {
	v, _, err := ParsePrefix(b, opts...)
	return v, err
}

// ParsePrefix parses one value from the start of b and reports how many
// bytes it consumed.
func ParsePrefix(b []byte, opts ...DecoderOption) (Value, int, error) {
	if len(b) == 0 {
		return Value{}, 0, fmt.Errorf("%w: empty input", ErrTruncated)
	}
	// Buffer the whole input so that look-ahead never has to wait.
	d := NewDecoder(bufio.NewReaderSize(bytes.NewReader(b), len(b)), opts...)
	v, err := d.ReadValue()
	if errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %w", ErrTruncated, io.ErrUnexpectedEOF)
	}
	if err != nil {
		return Value{}, 0, err
	}
	return v, len(b) - d.br.Buffered(), nil
}

// Decoder reads RESP values from a byte stream.
//
// Framing is driven by the grammar: the decoder reads exactly the bytes a
// value needs, so values split across reads or spanning buffer boundaries
// decode the same as values that arrive in one piece. A Decoder is not
// safe for concurrent use.
type Decoder struct {
	br  *bufio.Reader
	lim limits

	capture bool
	raw     []byte

	// A zero-length bulk was read without its optional body CRLF in the
	// buffer. Drop it before the next value if it shows up.
	pendingCRLF bool
}

// NewDecoder returns a decoder reading from r. If r is a *bufio.Reader it
// is used directly.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	lim := defaultLimits()
	for _, opt := range opts {
		opt(&lim)
	}
	return &Decoder{br: br, lim: lim}
}

// ReadValue reads the next value. It returns io.EOF unchanged when the
// stream ends before the first byte of a value.
func (d *Decoder) ReadValue() (Value, error) {
	d.capture = false
	return d.readTop()
}

// ReadRaw reads the next value and also returns the exact bytes it was
// decoded from.
func (d *Decoder) ReadRaw() (Value, []byte, error) {
	d.capture = true
	d.raw = d.raw[:0]
	v, err := d.readTop()
	d.capture = false
	raw := slices.Clone(d.raw)
	return v, raw, err
}

func (d *Decoder) readTop() (Value, error) {
	marker, err := d.readMarker()
	if err != nil {
		return Value{}, err
	}
	return d.readValue(marker, 0)
}

func (d *Decoder) readMarker() (byte, error) {
	if d.pendingCRLF {
		d.pendingCRLF = false
		if b, err := d.br.Peek(2); err == nil && b[0] == '\r' && b[1] == '\n' {
			_, _ = d.br.Discard(2)
		}
	}
	c, err := d.br.ReadByte()
	if err != nil {
		return 0, err
	}
	d.record(c)
	return c, nil
}

func (d *Decoder) readValue(marker byte, depth int) (Value, error) {
	switch marker {
	case '+':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		return SimpleString(line), nil

	case '-':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		return SimpleError(line), nil

	case ':':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		n, err := parseInteger(line)
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil

	case '(':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		n, err := parseBigDecimal(line)
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBigInteger, big: n}, nil

	case ',':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		f, err := parseDouble(line)
		if err != nil {
			return Value{}, err
		}
		return Double(f), nil

	case '#':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		switch line {
		case "t":
			return Bool(true), nil
		case "f":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("%w: invalid boolean %q", ErrMalformed, line)

	case '_':
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		if line != "" {
			return Value{}, fmt.Errorf("%w: unexpected payload after null", ErrMalformed)
		}
		return Null(), nil

	case '$':
		return d.readBulk(KindBulkString)

	case '!':
		return d.readBulk(KindBulkError)

	case '*':
		return d.readArray(depth)
	}

	return Value{}, fmt.Errorf("%w: %q", ErrUnknownType, marker)
}

func (d *Decoder) readBulk(kind Kind) (Value, error) {
	line, err := d.readLine()
	if err != nil {
		return Value{}, err
	}
	n, err := parseLength(line)
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		// RESP2 null bulk string.
		return Null(), nil
	}
	if n > d.lim.maxBulkLen {
		return Value{}, fmt.Errorf("%w: bulk length %d exceeds limit %d", ErrLimitExceeded, n, d.lim.maxBulkLen)
	}
	if n == 0 {
		d.readEmptyBody()
		return Value{kind: kind}, nil
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(d.br, buf); err != nil {
		return Value{}, truncated(err)
	}
	d.record(buf...)
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return Value{}, fmt.Errorf("%w: invalid bulk terminator", ErrMalformed)
	}
	return Value{kind: kind, text: string(buf[:n])}, nil
}

// readEmptyBody accepts both "$0\r\n" and "$0\r\n\r\n".
func (d *Decoder) readEmptyBody() {
	if d.br.Buffered() < 2 {
		d.pendingCRLF = true
		return
	}
	b, _ := d.br.Peek(2)
	if b[0] == '\r' && b[1] == '\n' {
		_, _ = d.br.Discard(2)
		d.record('\r', '\n')
	}
}

func (d *Decoder) readArray(depth int) (Value, error) {
	line, err := d.readLine()
	if err != nil {
		return Value{}, err
	}
	n, err := parseLength(line)
	if err != nil {
		return Value{}, err
	}
	if n == -1 {
		// RESP2 null array.
		return Null(), nil
	}
	if n > d.lim.maxArrayLen {
		return Value{}, fmt.Errorf("%w: array length %d exceeds limit %d", ErrLimitExceeded, n, d.lim.maxArrayLen)
	}
	if depth+1 > d.lim.maxDepth {
		return Value{}, fmt.Errorf("%w: nesting depth exceeds limit %d", ErrLimitExceeded, d.lim.maxDepth)
	}
	if n == 0 {
		return Value{kind: KindArray}, nil
	}

	elems := make([]Value, 0, min(n, 1024))
	for range n {
		marker, err := d.readMarker()
		if err != nil {
			return Value{}, truncated(err)
		}
		v, err := d.readValue(marker, depth+1)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	return Value{kind: KindArray, elems: elems}, nil
}

// readLine reads up to and including CRLF and returns the line without it.
func (d *Decoder) readLine() (string, error) {
	var buf []byte
	for {
		frag, err := d.br.ReadSlice('\n')
		if err == nil {
			buf = append(buf, frag...)
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			buf = append(buf, frag...)
			if len(buf) > d.lim.maxLineLen+2 {
				return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, d.lim.maxLineLen)
			}
			continue
		}
		return "", truncated(err)
	}
	d.record(buf...)

	if len(buf) > d.lim.maxLineLen+2 {
		return "", fmt.Errorf("%w: line length exceeds limit %d", ErrLimitExceeded, d.lim.maxLineLen)
	}
	if len(buf) < 2 || buf[len(buf)-2] != '\r' {
		return "", fmt.Errorf("%w: missing CRLF", ErrMalformed)
	}
	return string(buf[:len(buf)-2]), nil
}

func (d *Decoder) record(b ...byte) {
	if d.capture {
		d.raw = append(d.raw, b...)
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrTruncated, io.ErrUnexpectedEOF)
	}
	return err
}

// isSignedDigits reports whether s is an optional sign followed by at
// least one ASCII digit.
func isSignedDigits(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseInteger(s string) (int64, error) {
	if !isSignedDigits(s) {
		return 0, fmt.Errorf("%w: invalid integer %q", ErrMalformed, s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: integer %q out of range", ErrMalformed, s)
	}
	return n, nil
}

func parseBigDecimal(s string) (*big.Int, error) {
	if !isSignedDigits(s) {
		return nil, fmt.Errorf("%w: invalid big number %q", ErrMalformed, s)
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid big number %q", ErrMalformed, s)
	}
	return n, nil
}

func parseDouble(s string) (float64, error) {
	switch s {
	case "inf", "+inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}

	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E':
		default:
			return 0, fmt.Errorf("%w: invalid double %q", ErrMalformed, s)
		}
	}
	if digits == 0 {
		return 0, fmt.Errorf("%w: invalid double %q", ErrMalformed, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid double %q", ErrMalformed, s)
	}
	return f, nil
}

// parseLength parses a bulk or array header. -1 is the RESP2 null marker.
func parseLength(s string) (int, error) {
	if s == "-1" {
		return -1, nil
	}
	if s == "" || s[0] == '+' || s[0] == '-' || !isSignedDigits(s) {
		return 0, fmt.Errorf("%w: invalid length %q", ErrMalformed, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: length %q out of range", ErrMalformed, s)
	}
	return n, nil
}
