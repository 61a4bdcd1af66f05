package client

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/kvwire-go/pkg/command"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

var (
	// ErrBroken is returned for every command after a transport or parse
	// failure left the connection in an unknown state.
	ErrBroken = errors.New("client: connection broken")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("client: closed")
)

// Client runs commands over a single connection. It is safe for concurrent
// use; commands are serialized.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	dec    *resp.Decoder
	buf    []byte
	opts   options
	broken error
	closed bool
}

// Dial connects to address and returns a Client.
//
// address is "host:port", "tcp://host:port", "unix:///path/to.sock" or an
// absolute socket path.
func Dial(ctx context.Context, address string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	network, addr := splitAddress(address)
	d := net.Dialer{Timeout: o.dialTimeout}
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", address, err)
	}
	if o.tlsConfig != nil {
		if conn, err = handshake(ctx, conn, network, addr, o); err != nil {
			return nil, fmt.Errorf("dial %s: %w", address, err)
		}
	}
	return newClient(conn, o), nil
}

func handshake(ctx context.Context, conn net.Conn, network, addr string, o options) (net.Conn, error) {
	cfg := o.tlsConfig.Clone()
	if cfg.ServerName == "" && network == "tcp" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		cfg.ServerName = host
	}
	if o.dialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.dialTimeout)
		defer cancel()
	}
	tc := tls.Client(conn, cfg)
	if err := tc.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}
	return tc, nil
}

// New wraps an established connection.
func New(conn net.Conn, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(conn, o)
}

func newClient(conn net.Conn, o options) *Client {
	return &Client{
		conn: conn,
		dec:  resp.NewDecoder(bufio.NewReader(conn), o.decoderOpts...),
		opts: o,
	}
}

func splitAddress(address string) (network, addr string) {
	switch {
	case strings.HasPrefix(address, "unix://"):
		return "unix", strings.TrimPrefix(address, "unix://")
	case strings.HasPrefix(address, "tcp://"):
		return "tcp", strings.TrimPrefix(address, "tcp://")
	case strings.HasPrefix(address, "/"):
		return "unix", address
	}
	return "tcp", address
}

// RemoteAddr returns the address of the store.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Healthy reports whether the client can still run commands.
func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.broken == nil
}

// Close closes the connection. Commands after Close return ErrClosed.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Do sends cmd and returns the parsed reply.
//
// An error value from the store is returned both as the reply and as a
// *resp.ServerError; the connection stays usable. Transport and parse
// errors mark the connection broken.
func (c *Client) Do(ctx context.Context, cmd command.Command) (resp.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return resp.Value{}, ErrClosed
	}
	if c.broken != nil {
		return resp.Value{}, fmt.Errorf("%w: %w", ErrBroken, c.broken)
	}
	if err := ctx.Err(); err != nil {
		return resp.Value{}, err
	}
	if c.opts.limiter != nil {
		if err := c.opts.limiter.Wait(ctx); err != nil {
			return resp.Value{}, err
		}
	}

	// Unblock a pending write or read when ctx ends. If the callback has
	// started, wait for it so its deadline cannot hit the next command.
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		_ = c.conn.SetDeadline(time.Now())
	})
	defer func() {
		if !stop() {
			<-fired
		}
	}()

	id := RequestID(ctx)
	if id == "" {
		id = ulid.Make().String()
	}
	c.buf = resp.AppendValue(c.buf[:0], command.Encode(cmd))

	if err := c.conn.SetWriteDeadline(c.deadline(ctx, c.opts.writeTimeout)); err != nil {
		return resp.Value{}, c.fail(ctx, err)
	}
	start := time.Now()
	_, err := c.conn.Write(c.buf)
	c.notifySent(Event{ID: id, Command: cmd.Name(), Payload: c.buf, Err: err})
	if err != nil {
		return resp.Value{}, c.fail(ctx, fmt.Errorf("write: %w", err))
	}

	if err := c.conn.SetReadDeadline(c.deadline(ctx, c.opts.readTimeout)); err != nil {
		return resp.Value{}, c.fail(ctx, err)
	}
	v, raw, err := c.dec.ReadRaw()
	c.notifyReceived(Event{
		ID:      id,
		Command: cmd.Name(),
		Payload: raw,
		Reply:   v,
		Elapsed: time.Since(start),
		Err:     err,
	})
	if err != nil {
		return resp.Value{}, c.fail(ctx, fmt.Errorf("read: %w", err))
	}

	if v.IsError() {
		return v, v.Err()
	}
	return v, nil
}

func (c *Client) deadline(ctx context.Context, timeout time.Duration) time.Time {
	var t time.Time
	if timeout > 0 {
		t = time.Now().Add(timeout)
	}
	if d, ok := ctx.Deadline(); ok && (t.IsZero() || d.Before(t)) {
		t = d
	}
	return t
}

// fail marks the connection broken. A cancelled context takes precedence
// in the returned error so callers can tell cancellation from I/O failure.
func (c *Client) fail(ctx context.Context, err error) error {
	c.broken = err
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

func (c *Client) notifySent(e Event) {
	if c.opts.observer != nil {
		c.opts.observer.Sent(e)
	}
}

func (c *Client) notifyReceived(e Event) {
	if c.opts.observer != nil {
		c.opts.observer.Received(e)
	}
}

// Set stores value under key.
func (c *Client) Set(ctx context.Context, key, value string, opts ...command.SetOption) (command.SetResult, error) {
	cmd := command.NewSet(key, value, opts...)
	v, err := c.Do(ctx, cmd)
	if err != nil {
		return command.SetResult{}, err
	}
	return cmd.Shape(v)
}

// Get returns the value stored under key. found is false if the key is not set.
func (c *Client) Get(ctx context.Context, key string) (d command.Data, found bool, err error) {
	cmd := command.NewGet(key)
	v, err := c.Do(ctx, cmd)
	if err != nil {
		return command.Data{}, false, err
	}
	return cmd.Shape(v)
}

// Del removes keys and returns how many existed.
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	cmd := command.NewDel(keys...)
	v, err := c.Do(ctx, cmd)
	if err != nil {
		return 0, err
	}
	return cmd.Shape(v)
}

// FlushDB removes every key. async selects a background flush.
func (c *Client) FlushDB(ctx context.Context, async bool) error {
	cmd := command.NewFlushDB(async)
	v, err := c.Do(ctx, cmd)
	if err != nil {
		return err
	}
	return cmd.Shape(v)
}
