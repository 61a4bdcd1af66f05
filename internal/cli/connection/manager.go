package connection

import (
	"context"
	"errors"
	"sync"

	"github.com/yndnr/kvwire-go/internal/telemetry/logger"
	"github.com/yndnr/kvwire-go/pkg/client"
)

// ErrNotConnected is returned by Client after Disconnect.
var ErrNotConnected = errors.New("connection: not connected")

// DialFunc opens a client to server.
type DialFunc func(ctx context.Context, server string) (*client.Client, error)

// Manager manages the connection to one store at a time.
type Manager struct {
	dial DialFunc

	mu           sync.Mutex
	server       string
	current      *client.Client
	disconnected bool
}

// NewManager creates a connection manager for server. dial is called on
// first use; a nil dial uses client.Dial with default options.
//
// Dials are logged at debug level through the logger and request ID
// carried by the caller's context (see logger.L).
func NewManager(server string, dial DialFunc) *Manager {
	m := &Manager{
		dial:   dial,
		server: server,
	}
	if m.dial == nil {
		m.dial = func(ctx context.Context, server string) (*client.Client, error) {
			return client.Dial(ctx, server)
		}
	}
	return m
}

// Server returns the address of the current (or next) connection.
func (m *Manager) Server() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server
}

// Client returns the current client, dialing it on first use.
func (m *Manager) Client(ctx context.Context) (*client.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return m.current, nil
	}
	if m.disconnected {
		return nil, ErrNotConnected
	}
	return m.connectLocked(ctx, m.server)
}

// Connect dials server and makes it the current connection. The previous
// connection is closed only after the new one is established. An empty
// server reconnects to the current address.
func (m *Manager) Connect(ctx context.Context, server string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if server == "" {
		server = m.server
	}
	prev := m.current
	if _, err := m.connectLocked(ctx, server); err != nil {
		return err
	}
	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

func (m *Manager) connectLocked(ctx context.Context, server string) (*client.Client, error) {
	log := logger.L(ctx)
	c, err := m.dial(ctx, server)
	if err != nil {
		log.Debug("dial failed",
			"server", logger.RedactAddress(server),
			"error", err,
		)
		return nil, err
	}
	log.Debug("connected",
		"server", logger.RedactAddress(server),
		"remote", c.RemoteAddr().String(),
	)
	m.server = server
	m.current = c
	m.disconnected = false
	return c, nil
}

// Disconnect closes the current connection. Later calls to Client fail
// with ErrNotConnected until Connect.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.disconnected = true
	if m.current == nil {
		return nil
	}
	err := m.current.Close()
	m.current = nil
	return err
}

// Close closes the current connection, if any.
func (m *Manager) Close() error {
	return m.Disconnect()
}

// IsConnected reports whether a usable connection is open.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.Healthy()
}
