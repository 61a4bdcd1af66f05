package command

import "github.com/yndnr/kvwire-go/pkg/resp"

// FlushDB removes every key of the selected database.
type FlushDB struct {
	Async bool
}

// NewFlushDB returns a FLUSHDB command. async selects ASYNC over SYNC.
func NewFlushDB(async bool) *FlushDB {
	return &FlushDB{Async: async}
}

func (*FlushDB) sealed() {}

// Name implements Command.
func (*FlushDB) Name() string { return NameFlushDB }

// Args implements Command.
func (f *FlushDB) Args() []resp.Value {
	if f.Async {
		return []resp.Value{resp.BulkString("ASYNC")}
	}
	return []resp.Value{resp.BulkString("SYNC")}
}

// Shape checks the acknowledgement.
func (f *FlushDB) Shape(v resp.Value) error {
	if !isOK(v) {
		return unexpected(NameFlushDB, v)
	}
	return nil
}
