package command

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/yndnr/kvwire-go/pkg/command"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

// ====================
// Text output
// ====================

func TestStoreCommands_Text(t *testing.T) {
	srv := startStore(t)
	srv.Store().Put("other", "x")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"set", []string{"set", "k", "hello world"}, "OK\n"},
		{"get", []string{"get", "k"}, "\"hello world\"\n"},
		{"get missing", []string{"get", "missing"}, "(nil)\n"},
		{"set nx aborted", []string{"set", "k", "v2", "nx"}, "(nil)\n"},
		{"set get previous", []string{"set", "k", "v3", "GET", "EX", "60"}, "\"hello world\"\n"},
		{"del", []string{"del", "k", "missing"}, "(integer) 1\n"},
		{"flushdb", []string{"flushdb", "async"}, "OK\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--server", srv.Addr()}, tt.args...)
			res := runCLI(t, "", args...)
			if res.err != nil {
				t.Fatalf("run %v error = %v", tt.args, res.err)
			}
			if res.out != tt.want {
				t.Errorf("output = %q, want %q", res.out, tt.want)
			}
		})
	}

	if n := srv.Store().Len(); n != 0 {
		t.Errorf("store has %d keys after flushdb", n)
	}
}

// ====================
// Structured output
// ====================

func TestStoreCommands_JSON(t *testing.T) {
	srv := startStore(t)
	srv.Store().Put("k", "v")

	res := runCLI(t, "", "--server", srv.Addr(), "-o", "json", "get", "k")
	if res.err != nil {
		t.Fatal(res.err)
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(res.out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, res.out)
	}
	if got["command"] != "GET" || got["value"] != "v" {
		t.Errorf("output = %v", got)
	}
}

func TestStoreCommands_YAMLCount(t *testing.T) {
	srv := startStore(t)
	srv.Store().Put("a", "1")

	res := runCLI(t, "", "--server", srv.Addr(), "-o", "yaml", "del", "a", "b")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.out, "command: DEL") || !strings.Contains(res.out, "count: 1") {
		t.Errorf("output = %q", res.out)
	}
}

// ====================
// Errors
// ====================

func TestStoreCommands_ErrorReply(t *testing.T) {
	addr := startRejectingStore(t, resp.SimpleError("ERR read only"))

	res := runCLI(t, "", "--server", addr, "set", "k", "v")
	if !errors.Is(res.err, ErrReported) {
		t.Fatalf("error = %v, want ErrReported", res.err)
	}
	if res.out != "(error) ERR read only\n" {
		t.Errorf("output = %q", res.out)
	}
}

func TestStoreCommands_UnexpectedReply(t *testing.T) {
	addr := startRejectingStore(t, resp.Int(7))

	res := runCLI(t, "", "--server", addr, "flushdb")
	if !errors.Is(res.err, command.ErrUnexpectedReply) {
		t.Errorf("error = %v, want ErrUnexpectedReply", res.err)
	}
}

func TestStoreCommands_Syntax(t *testing.T) {
	srv := startStore(t)

	res := runCLI(t, "", "--server", srv.Addr(), "get")
	if !errors.Is(res.err, command.ErrSyntax) {
		t.Errorf("error = %v, want ErrSyntax", res.err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("a malformed command reached the store")
	}
}

func TestStoreCommands_DialFailure(t *testing.T) {
	addr := startRejectingStore(t, resp.Null())
	res := runCLI(t, "", "--server", addr, "--tls", "--dial-timeout", "500ms", "get", "k")
	if res.err == nil {
		t.Error("TLS handshake with a plaintext store should fail")
	}
}

func TestStoreCommands_Traffic(t *testing.T) {
	srv := startStore(t)

	res := runCLI(t, "", "--server", srv.Addr(), "--traffic", "get", "k")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"msg=sent", "msg=received", "command=GET", "msg=connected"} {
		if !strings.Contains(res.errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, res.errOut)
		}
	}

	// connected, sent and received share the command's request ID.
	ids := regexp.MustCompile(`request_id=(\S+)`).FindAllStringSubmatch(res.errOut, -1)
	if len(ids) < 3 {
		t.Fatalf("request_id appears %d times, want at least 3:\n%s", len(ids), res.errOut)
	}
	for _, m := range ids[1:] {
		if m[1] != ids[0][1] {
			t.Errorf("request_id %s differs from %s", m[1], ids[0][1])
		}
	}
}
