package command

import (
	"bufio"
	"bytes"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/pkg/client/clienttest"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

// cliResult holds what one CLI invocation wrote.
type cliResult struct {
	out    string
	errOut string
	err    error
}

// runCLI runs the app with a private HOME and a config path that does not
// exist unless the test writes it.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return runCLIWithConfig(t, filepath.Join(home, "cli.yaml"), stdin, args...)
}

func runCLIWithConfig(t *testing.T, configPath, stdin string, args ...string) cliResult {
	t.Helper()
	var out, errOut bytes.Buffer

	app := App()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}

	full := append([]string{"kvwire-cli", "--config", configPath}, args...)
	err := app.Run(full)
	return cliResult{out: out.String(), errOut: errOut.String(), err: err}
}

func startStore(t *testing.T) *clienttest.Server {
	t.Helper()
	srv, err := clienttest.NewServer("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

// startRejectingStore answers every request with the given error value.
func startRejectingStore(t *testing.T, reply resp.Value) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				dec := resp.NewDecoder(bufio.NewReader(conn))
				for {
					if _, err := dec.ReadValue(); err != nil {
						return
					}
					if _, err := conn.Write(resp.Serialize(reply)); err != nil {
						return
					}
				}
			}()
		}
	}()
	return ln.Addr().String()
}
