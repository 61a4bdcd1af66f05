package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/kvwire-go/internal/cli/output"
	"github.com/yndnr/kvwire-go/pkg/command"
	"github.com/yndnr/kvwire-go/pkg/resp"
)

// EncodeCommand returns the encode command.
func EncodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "Print the wire bytes of a command without sending it",
		ArgsUsage: "COMMAND [ARG ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "Write the bytes unquoted",
			},
		},
		Action: encodeAction,
	}
}

func encodeAction(c *cli.Context) error {
	cmd, err := command.Parse(c.Args().Slice())
	if err != nil {
		return err
	}
	b := command.Serialize(cmd)

	if c.Bool("raw") {
		_, err = c.App.Writer.Write(b)
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, strconv.Quote(string(b)))
	return err
}

// DecodeCommand returns the decode command.
func DecodeCommand() *cli.Command {
	return &cli.Command{
		Name:  "decode",
		Usage: "Parse wire bytes and print the values",
		Description: `Reads one value from the argument, where \r\n and other Go escapes
are interpreted, or every value from stdin when no argument is given:

   kvwire-cli decode '*2\r\n:1\r\n,3.5\r\n'
   printf '#t\r\n_\r\n' | kvwire-cli -o json decode`,
		ArgsUsage: "[WIRE]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Maximum aggregate nesting",
				Value: resp.DefaultMaxDepth,
			},
		},
		Action: decodeAction,
	}
}

func decodeAction(c *cli.Context) error {
	format := output.FormatText
	if c.IsSet("output") {
		f, err := output.ParseFormat(c.String("output"))
		if err != nil {
			return err
		}
		format = f
	}
	formatter := output.NewFormatter(format)
	opts := []resp.DecoderOption{resp.WithMaxDepth(c.Int("max-depth"))}

	if c.NArg() > 0 {
		wire, err := unescape(strings.Join(c.Args().Slice(), " "))
		if err != nil {
			return err
		}
		v, err := resp.Parse([]byte(wire), opts...)
		if err != nil {
			return err
		}
		return formatter.Format(c.App.Writer, v)
	}

	dec := resp.NewDecoder(bufio.NewReader(c.App.Reader), opts...)
	var values []resp.Value
	for {
		v, err := dec.ReadValue()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("value %d: %w", len(values)+1, err)
		}
		values = append(values, v)
	}
	if len(values) == 1 {
		return formatter.Format(c.App.Writer, values[0])
	}
	return formatter.Format(c.App.Writer, values)
}

// unescape interprets Go escape sequences in s. Double quotes may appear
// bare or escaped.
func unescape(s string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(s))
	for rest := s; rest != ""; {
		if rest[0] == '"' {
			sb.WriteByte('"')
			rest = rest[1:]
			continue
		}
		r, multibyte, tail, err := strconv.UnquoteChar(rest, '"')
		if err != nil {
			return "", fmt.Errorf("decode: invalid escape in %q", s)
		}
		if multibyte {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(byte(r))
		}
		rest = tail
	}
	return sb.String(), nil
}
