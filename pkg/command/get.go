package command

import "github.com/yndnr/kvwire-go/pkg/resp"

// Get reads the value stored under a key.
type Get struct {
	Key string
}

// NewGet returns a GET command.
func NewGet(key string) *Get {
	return &Get{Key: key}
}

func (*Get) sealed() {}

// Name implements Command.
func (*Get) Name() string { return NameGet }

// Args implements Command.
func (g *Get) Args() []resp.Value {
	return []resp.Value{resp.BulkString(g.Key)}
}

// Shape returns the stored value. found is false when the reply is Null.
func (g *Get) Shape(v resp.Value) (d Data, found bool, err error) {
	if v.IsNull() {
		return Data{}, false, nil
	}
	d, err = DataFromValue(v)
	if err != nil {
		return Data{}, false, unexpected(NameGet, v)
	}
	return d, true, nil
}
