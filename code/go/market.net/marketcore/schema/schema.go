package schema

import (
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
)

// Kind is the persisted shape of a layout field.
type Kind string

const (
	Bool    Kind = "bool"
	Uint    Kind = "uint"
	String  Kind = "string"
	Address Kind = "address"
	Table   Kind = "table"
)

// Field is one slot of the persistent storage layout.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Layout is the ordered storage layout a logic version declares. The
// ordering is the upgrade contract: a later version may only append.
type Layout []Field

func (l Layout) Append(name string, kind Kind) Layout {
	next := make(Layout, len(l), len(l)+1)
	copy(next, l)
	return append(next, Field{Name: name, Kind: kind})
}

// VerifyPrefix checks that next preserves every field of active, in order
// and with the same kind. Activating a logic that fails this check would
// silently corrupt all existing records, so it is refused up front.
func VerifyPrefix(active, next Layout) error {
	if len(next) < len(active) {
		return common.NewErrorf("incompatible_layout",
			"new layout has %d fields, active layout has %d", len(next), len(active))
	}
	for i, f := range active {
		if next[i].Name != f.Name {
			return common.NewErrorf("incompatible_layout",
				"field %d renamed: %q -> %q", i, f.Name, next[i].Name)
		}
		if next[i].Kind != f.Kind {
			return common.NewErrorf("incompatible_layout",
				"field %q retyped: %q -> %q", f.Name, f.Kind, next[i].Kind)
		}
	}
	return nil
}
