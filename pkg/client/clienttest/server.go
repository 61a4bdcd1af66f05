// Package clienttest provides an in-memory store that speaks the wire
// protocol, for tests of code built on package client.
package clienttest

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// IdleTimeout closes connections that send nothing for this long.
const IdleTimeout = 30 * time.Second

// Server serves a Store on a loopback listener.
type Server struct {
	ln      net.Listener
	store   *Store
	running atomic.Bool
	wg      sync.WaitGroup

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	requests [][]string
}

// NewServer listens on network and address ("tcp", "127.0.0.1:0" or
// "unix", "/path/sock") and serves a fresh Store until Close.
func NewServer(network, address string) (*Server, error) {
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}

	s := &Server{
		ln:    ln,
		store: NewStore(),
		conns: make(map[net.Conn]struct{}),
	}
	s.running.Store(true)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	return s, nil
}

// Addr returns the address to pass to client.Dial.
func (s *Server) Addr() string {
	if s.ln.Addr().Network() == "unix" {
		return "unix://" + s.ln.Addr().String()
	}
	return s.ln.Addr().String()
}

// Store returns the backing store.
func (s *Server) Store() *Store {
	return s.store
}

// Requests returns every command received so far, in order.
func (s *Server) Requests() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.requests...)
}

// Close stops the listener, drops open connections and waits for the
// serving goroutines to finish.
func (s *Server) Close() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	err := s.ln.Close()

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			return
		}

		s.mu.Lock()
		if !s.running.Load() {
			s.mu.Unlock()
			_ = c.Close()
			return
		}
		s.conns[c] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(c)
		}()
	}
}

func (s *Server) serveConn(c net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
		_ = c.Close()
	}()

	dec := resp.NewDecoder(bufio.NewReader(c))
	bw := bufio.NewWriter(c)
	for {
		if err := c.SetReadDeadline(time.Now().Add(IdleTimeout)); err != nil {
			return
		}
		v, err := dec.ReadValue()
		if err != nil {
			if resp.IsParseError(err) {
				_, _ = bw.Write(resp.Serialize(resp.SimpleError("ERR protocol error: " + err.Error())))
				_ = bw.Flush()
			}
			return
		}

		args, ok := commandArgs(v)
		var reply resp.Value
		if ok {
			s.mu.Lock()
			s.requests = append(s.requests, args)
			s.mu.Unlock()
			reply = s.store.Handle(args)
		} else {
			reply = resp.SimpleError("ERR expected an array of bulk strings")
		}

		if _, err := bw.Write(resp.Serialize(reply)); err != nil {
			return
		}
		if err := bw.Flush(); err != nil {
			return
		}
	}
}

// commandArgs unpacks a request: a non-empty array of bulk strings.
func commandArgs(v resp.Value) ([]string, bool) {
	if v.Kind() != resp.KindArray || v.Len() == 0 {
		return nil, false
	}
	args := make([]string, v.Len())
	for i, e := range v.Elems() {
		if e.Kind() != resp.KindBulkString {
			return nil, false
		}
		args[i] = e.Text()
	}
	args[0] = strings.ToUpper(args[0])
	return args, true
}
