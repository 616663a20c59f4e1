package marketplace

import (
	"context"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/schema"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
)

// V2 extends V1 with a trailing counter slot. All V1 operations and
// storage stay as they are; only new selectors and the appended layout
// field are added.
type V2 struct {
	V1
}

func (v *V2) Name() string {
	return "gpu_rental_marketplace_v2"
}

func (v *V2) Version() int {
	return 2
}

func (v *V2) Layout() schema.Layout {
	return v.V1.Layout().Append("counter", schema.Uint)
}

// Increase bumps the V2 counter slot.
func (v *V2) Increase(ctx context.Context) (int64, error) {
	st, err := state.GetState(ctx)
	if err != nil {
		return 0, err
	}
	st.Counter++
	if err := st.Save(ctx); err != nil {
		return 0, err
	}
	return st.Counter, nil
}

// MachineID reads the machine sequence head without advancing it.
func (v *V2) MachineID(ctx context.Context) (int64, error) {
	return state.PeekNext(ctx, state.SequenceMachineID)
}

func (v *V2) Selectors() map[string]SelectorFunc {
	sels := v.V1.Selectors()

	sels[SelIncrease] = func(ctx context.Context, call *Call) (interface{}, error) {
		return v.Increase(ctx)
	}
	sels[SelMachineID] = func(ctx context.Context, call *Call) (interface{}, error) {
		return v.MachineID(ctx)
	}
	sels[SelCounter] = func(ctx context.Context, call *Call) (interface{}, error) {
		st, err := state.GetState(ctx)
		if err != nil {
			return nil, err
		}
		return st.Counter, nil
	}
	return sels
}
