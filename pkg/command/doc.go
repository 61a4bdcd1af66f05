// Package command builds key-value store commands and shapes their replies.
//
// Each command is a value that knows its name and its wire arguments. It
// owns no connection state:
//
//	cmd := command.NewSet("foo", "bar", command.WithMode(command.ModeIfAbsent), command.WithGet())
//	wire := command.Serialize(cmd) // *5\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n$2\r\nNX\r\n$3\r\nGET\r\n
//
// Replies are shaped by the command that produced them:
//
//   - Set.Shape: Completed, Aborted or the previous value
//   - Get.Shape: the stored Data, or not found
//   - Del.Shape: the number of removed keys
//   - FlushDB.Shape: nil on OK
//
// A reply that matches none of the expected shapes yields ErrUnexpectedReply.
//
// Parse turns whitespace-separated tokens, as typed in the CLI or REPL,
// into a Command. Option tokens are case-insensitive and may appear in any
// order.
package command
