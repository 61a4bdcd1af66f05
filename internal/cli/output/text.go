package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// TextFormatter writes human-readable output.
//
// Results follow the conventions of interactive store clients: quoted
// strings, numbered list items, "(integer) n", "(nil)" and "(error) msg".
// Data without a dedicated rendering is written as YAML.
type TextFormatter struct{}

// Format formats data as text.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	switch d := data.(type) {
	case Result:
		_, err := io.WriteString(w, FormatResult(d)+"\n")
		return err
	case *Result:
		_, err := io.WriteString(w, FormatResult(*d)+"\n")
		return err
	case resp.Value:
		_, err := io.WriteString(w, d.String()+"\n")
		return err
	case []resp.Value:
		for _, v := range d {
			if _, err := io.WriteString(w, v.String()+"\n"); err != nil {
				return err
			}
		}
		return nil
	case *Table:
		return d.Render(w)
	case string:
		_, err := io.WriteString(w, d+"\n")
		return err
	case fmt.Stringer:
		_, err := io.WriteString(w, d.String()+"\n")
		return err
	}
	return (&YAMLFormatter{}).Format(w, data)
}

// FormatResult renders r on one or more lines, without a trailing newline.
func FormatResult(r Result) string {
	switch {
	case r.Error != "":
		return "(error) " + r.Error
	case r.Nil:
		return "(nil)"
	case r.Count != nil:
		return "(integer) " + strconv.FormatInt(*r.Count, 10)
	}

	switch v := r.Value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		if len(v) == 0 {
			return "(empty list)"
		}
		var sb strings.Builder
		width := len(strconv.Itoa(len(v)))
		for i, item := range v {
			if i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%*d) %s", width, i+1, strconv.Quote(item))
		}
		return sb.String()
	}

	if r.Status != "" {
		return r.Status
	}
	return "OK"
}
