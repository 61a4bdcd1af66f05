package command

import "github.com/yndnr/kvwire-go/pkg/resp"

// Del removes keys. Keys that do not exist are ignored by the store.
type Del struct {
	Keys []string
}

// NewDel returns a DEL command.
func NewDel(keys ...string) *Del {
	return &Del{Keys: keys}
}

func (*Del) sealed() {}

// Name implements Command.
func (*Del) Name() string { return NameDel }

// Args implements Command.
func (d *Del) Args() []resp.Value {
	args := make([]resp.Value, len(d.Keys))
	for i, k := range d.Keys {
		args[i] = resp.BulkString(k)
	}
	return args
}

// Shape returns the number of keys removed.
func (d *Del) Shape(v resp.Value) (int64, error) {
	if v.Kind() != resp.KindInteger || v.Int() < 0 {
		return 0, unexpected(NameDel, v)
	}
	return v.Int(), nil
}
