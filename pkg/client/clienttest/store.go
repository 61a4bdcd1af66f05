package clienttest

import (
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/kvwire-go/pkg/cmap"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

type entry struct {
	value   string
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// Store is an in-memory key space implementing SET, GET, DEL and FLUSHDB.
// It is safe for concurrent use; each command is atomic per key.
type Store struct {
	data *cmap.Map[entry]
	now  func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		data: cmap.New[entry](),
		now:  time.Now,
	}
}

// Put stores value under key without expiry.
func (s *Store) Put(key, value string) {
	s.data.Set(key, entry{value: value})
}

// Lookup returns the live value stored under key.
func (s *Store) Lookup(key string) (string, bool) {
	e, ok := s.get(key)
	return e.value, ok
}

// TTL returns the remaining lifetime of key; zero means no expiry.
func (s *Store) TTL(key string) time.Duration {
	e, ok := s.get(key)
	if !ok || e.expires.IsZero() {
		return 0
	}
	return e.expires.Sub(s.now())
}

// Len returns the number of live keys.
func (s *Store) Len() int {
	now := s.now()
	n := 0
	s.data.Range(func(_ string, e entry) bool {
		if !e.expired(now) {
			n++
		}
		return true
	})
	return n
}

// Handle executes one command and returns the reply. args[0] is the
// upper-case command name.
func (s *Store) Handle(args []string) resp.Value {
	if len(args) == 0 {
		return resp.SimpleError("ERR wrong number of arguments")
	}
	switch args[0] {
	case "SET":
		return s.set(args[1:])
	case "GET":
		if len(args) != 2 {
			return wrongArity("get")
		}
		e, ok := s.get(args[1])
		if !ok {
			return resp.Null()
		}
		return resp.BulkString(e.value)
	case "DEL":
		if len(args) < 2 {
			return wrongArity("del")
		}
		var n int64
		now := s.now()
		for _, k := range args[1:] {
			s.data.Compute(k, func(e entry, exists bool) (entry, bool) {
				if exists && !e.expired(now) {
					n++
				}
				return e, false
			})
		}
		return resp.Int(n)
	case "FLUSHDB":
		if len(args) > 2 {
			return wrongArity("flushdb")
		}
		if len(args) == 2 && args[1] != "SYNC" && args[1] != "ASYNC" {
			return syntaxError()
		}
		s.data.Clear()
		return resp.SimpleString("OK")
	}
	return resp.SimpleError("ERR unknown command '" + strings.ToLower(args[0]) + "'")
}

// get returns the live entry for key, dropping it if expired.
func (s *Store) get(key string) (entry, bool) {
	var (
		live entry
		ok   bool
	)
	now := s.now()
	s.data.Compute(key, func(e entry, exists bool) (entry, bool) {
		if !exists || e.expired(now) {
			return e, false
		}
		live, ok = e, true
		return e, true
	})
	return live, ok
}

func (s *Store) set(args []string) resp.Value {
	if len(args) < 2 {
		return wrongArity("set")
	}
	key, value := args[0], args[1]

	var (
		nx, xx, get, keepTTL bool
		expires              time.Time
		expirySet            bool
	)
	now := s.now()
	for i := 2; i < len(args); i++ {
		switch opt := strings.ToUpper(args[i]); opt {
		case "NX":
			nx = true
		case "XX":
			xx = true
		case "GET":
			get = true
		case "KEEPTTL":
			keepTTL = true
		case "EX", "PX", "EXAT", "PXAT":
			if expirySet || i+1 >= len(args) {
				return syntaxError()
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil || n <= 0 {
				return resp.SimpleError("ERR invalid expire time in 'set' command")
			}
			expirySet = true
			switch opt {
			case "EX":
				expires = now.Add(time.Duration(n) * time.Second)
			case "PX":
				expires = now.Add(time.Duration(n) * time.Millisecond)
			case "EXAT":
				expires = time.Unix(n, 0)
			case "PXAT":
				expires = time.UnixMilli(n)
			}
		default:
			return syntaxError()
		}
	}
	if (nx && xx) || (keepTTL && expirySet) {
		return syntaxError()
	}

	var (
		old           entry
		exists, write bool
	)
	s.data.Compute(key, func(cur entry, found bool) (entry, bool) {
		exists = found && !cur.expired(now)
		if exists {
			old = cur
		}
		write = !(nx && exists) && !(xx && !exists)
		if !write {
			return cur, exists
		}
		e := entry{value: value, expires: expires}
		if keepTTL && exists {
			e.expires = old.expires
		}
		return e, true
	})

	switch {
	case get && exists:
		return resp.BulkString(old.value)
	case get, !write:
		return resp.Null()
	}
	return resp.SimpleString("OK")
}

func wrongArity(cmd string) resp.Value {
	return resp.SimpleError("ERR wrong number of arguments for '" + cmd + "' command")
}

func syntaxError() resp.Value {
	return resp.SimpleError("ERR syntax error")
}
