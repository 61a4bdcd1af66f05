package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yndnr/kvwire-go/pkg/resp"
)

// DataKind discriminates Data.
type DataKind uint8

const (
	DataString DataKind = iota
	DataList
)

// Data is a stored value as seen by callers: a string or a list of strings.
type Data struct {
	Kind DataKind
	Text string
	List []string
}

// StringData returns string data.
func StringData(s string) Data {
	return Data{Kind: DataString, Text: s}
}

// ListData returns list data.
func ListData(items ...string) Data {
	return Data{Kind: DataList, List: items}
}

// DataFromValue converts a reply to Data. Scalars become strings, arrays
// become lists. Nested arrays are flattened to their display form. Null and
// error values are not convertible.
func DataFromValue(v resp.Value) (Data, error) {
	if v.Kind() == resp.KindArray {
		items := make([]string, 0, v.Len())
		for i := range v.Len() {
			d, err := DataFromValue(v.Index(i))
			if err != nil {
				return Data{}, fmt.Errorf("element %d: %w", i, err)
			}
			if d.Kind == DataList {
				items = append(items, d.String())
				continue
			}
			items = append(items, d.Text)
		}
		return ListData(items...), nil
	}

	switch v.Kind() {
	case resp.KindBulkString, resp.KindSimpleString:
		return StringData(v.Text()), nil
	case resp.KindInteger:
		return StringData(strconv.FormatInt(v.Int(), 10)), nil
	case resp.KindBigInteger:
		return StringData(v.BigInt().String()), nil
	case resp.KindDouble:
		return StringData(resp.FormatDouble(v.Float())), nil
	case resp.KindBoolean:
		return StringData(strconv.FormatBool(v.Bool())), nil
	}
	return Data{}, fmt.Errorf("%w: %s", ErrNotConvertible, v.Kind())
}

// Value returns the wire form of d: a bulk string or an array of bulk strings.
func (d Data) Value() resp.Value {
	if d.Kind == DataList {
		return resp.Strings(d.List...)
	}
	return resp.BulkString(d.Text)
}

// String renders d as "text" or [a,b].
func (d Data) String() string {
	if d.Kind == DataList {
		return "[" + strings.Join(d.List, ",") + "]"
	}
	return `"` + d.Text + `"`
}
