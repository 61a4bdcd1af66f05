// Package client is a minimal key-value store client built on package resp.
//
// A Client owns one connection and runs one command at a time:
// serialize, write, blocking read, parse. There is no pipelining and no
// reconnection. After a transport or parse failure the connection state is
// unknown, so the client refuses further commands with ErrBroken.
//
// Traffic can be observed by injecting an Observer (see WithObserver); the
// client itself never logs.
package client
