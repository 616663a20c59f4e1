package marketplace

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/authorization"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/events"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/machine"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/order"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/schema"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/user"
)

// SettleFunc runs after an order leaves pending. Payout to the machine
// owner is not part of the core; installing a SettleFunc is the extension
// point for it.
type SettleFunc func(ctx context.Context, o *order.RentalOrder) error

// V1 is the first-generation marketplace logic.
type V1 struct {
	Settle SettleFunc
}

func (v *V1) Name() string {
	return "gpu_rental_marketplace_v1"
}

func (v *V1) Version() int {
	return 1
}

func (v *V1) Layout() schema.Layout {
	return schema.Layout{
		{Name: "initialized", Kind: schema.Bool},
		{Name: "owner", Kind: schema.Address},
		{Name: "key_a", Kind: schema.Address},
		{Name: "key_b", Kind: schema.Address},
		{Name: "users", Kind: schema.Table},
		{Name: "machines", Kind: schema.Table},
		{Name: "orders", Kind: schema.Table},
		{Name: "next_machine_id", Kind: schema.Uint},
		{Name: "next_order_id", Kind: schema.Uint},
	}
}

// Init runs as the forwarded init selector during construction: the
// construct caller becomes owner and the id sequences are seeded.
func (v *V1) Init(ctx context.Context, caller string) error {
	if caller == "" {
		return common.InvalidRequest("missing caller identity")
	}
	if err := state.Bootstrap(ctx, caller); err != nil {
		return err
	}
	logging.Logger.Info("marketplace initialized", zap.String("owner", caller))
	return nil
}

// SetKeys assigns the two registrar keys. Owner only; re-settable.
func (v *V1) SetKeys(ctx context.Context, caller, keyA, keyB string) error {
	if err := authorization.Authorize(ctx, caller, authorization.RoleOwner); err != nil {
		return err
	}
	st, err := state.GetState(ctx)
	if err != nil {
		return err
	}
	st.KeyA = keyA
	st.KeyB = keyB
	return st.Save(ctx)
}

// RegisterUser creates or overwrites the user record for target. Owner
// only.
func (v *V1) RegisterUser(ctx context.Context, caller, refID string, balance int64, name, target string) (*user.User, error) {
	if err := authorization.Authorize(ctx, caller, authorization.RoleOwner); err != nil {
		return nil, err
	}
	if target == "" {
		return nil, common.InvalidRequest("missing target identity")
	}
	if balance < 0 {
		return nil, common.InvalidRequest("negative initial balance")
	}

	u := &user.User{Address: target, RefID: refID, Gpoints: balance, Name: name}
	if err := user.Upsert(ctx, u); err != nil {
		return nil, err
	}

	err := events.Emit(ctx, events.UserRegistered, map[string]interface{}{
		"address": target,
		"ref_id":  refID,
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterMachine lists a machine on behalf of its owning identity. Gated
// by the registrar keys, not the owner.
func (v *V1) RegisterMachine(ctx context.Context, caller string, m *machine.Machine) (*machine.Machine, error) {
	if err := authorization.Authorize(ctx, caller, authorization.RoleRegistrarKey); err != nil {
		return nil, err
	}
	if m.Owner == "" {
		return nil, common.InvalidRequest("missing machine owner identity")
	}
	if m.PricePerHour < 0 {
		return nil, common.InvalidRequest("negative price")
	}

	id, err := state.AllocateNext(ctx, state.SequenceMachineID)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := m.Save(ctx); err != nil {
		return nil, err
	}

	err = events.Emit(ctx, events.MachineListed, map[string]interface{}{
		"machine_id": id,
		"gpu":        m.GPU,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RentMachine debits the renter and opens a pending order. The cost is
// durationHours x the machine's hourly price; priceBasis is recorded on
// the order as submitted.
func (v *V1) RentMachine(ctx context.Context, caller string, machineID, durationHours, priceBasis int64) (*order.RentalOrder, error) {
	if durationHours <= 0 {
		return nil, common.InvalidRequest("duration must be positive")
	}

	u, err := user.GetUser(ctx, caller)
	if err != nil {
		return nil, common.NewError("unknown_renter", "caller is not a registered user")
	}
	m, err := machine.GetMachine(ctx, machineID)
	if err != nil {
		return nil, common.NewErrorf("unknown_machine", "no machine with id %v", machineID)
	}

	cost := durationHours * m.PricePerHour
	if err := u.Debit(cost); err != nil {
		return nil, err
	}
	if err := u.Save(ctx); err != nil {
		return nil, err
	}

	id, err := state.AllocateNext(ctx, state.SequenceOrderID)
	if err != nil {
		return nil, err
	}
	o := &order.RentalOrder{
		ID:            id,
		MachineID:     machineID,
		Renter:        caller,
		DurationHours: durationHours,
		GpointPrice:   priceBasis,
		StartTime:     common.Now(),
		IsPending:     true,
	}
	if err := o.Create(ctx); err != nil {
		return nil, err
	}

	err = events.Emit(ctx, events.MachineRented, map[string]interface{}{
		"order_id":   id,
		"machine_id": machineID,
		"renter":     caller,
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CompleteOrder flips the pending flag once the lease window has elapsed.
// Early calls fail with the bare precondition error and change nothing.
func (v *V1) CompleteOrder(ctx context.Context, orderID int64) (*order.RentalOrder, error) {
	o, err := order.GetOrder(ctx, orderID)
	if err != nil {
		return nil, common.NewErrorf("unknown_order", "no order with id %v", orderID)
	}
	if !o.IsPending {
		return nil, order.ErrClosed
	}
	if !o.Matured(common.Now()) {
		return nil, order.ErrNotMatured
	}

	o.IsPending = false
	if err := o.Save(ctx); err != nil {
		return nil, err
	}
	if v.Settle != nil {
		if err := v.Settle(ctx, o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (v *V1) Selectors() map[string]SelectorFunc {
	return map[string]SelectorFunc{
		SelInitialize: func(ctx context.Context, call *Call) (interface{}, error) {
			return nil, v.Init(ctx, call.Caller)
		},
		SelSetKeys: func(ctx context.Context, call *Call) (interface{}, error) {
			keyA, err := call.Args.String("key_a")
			if err != nil {
				return nil, err
			}
			keyB, err := call.Args.String("key_b")
			if err != nil {
				return nil, err
			}
			return nil, v.SetKeys(ctx, call.Caller, keyA, keyB)
		},
		SelRegisterUser: func(ctx context.Context, call *Call) (interface{}, error) {
			refID, err := call.Args.String("ref_id")
			if err != nil {
				return nil, err
			}
			balance, err := call.Args.Int64("initial_balance")
			if err != nil {
				return nil, err
			}
			name, err := call.Args.String("name")
			if err != nil {
				return nil, err
			}
			target, err := call.Args.String("address")
			if err != nil {
				return nil, err
			}
			return v.RegisterUser(ctx, call.Caller, refID, balance, name, target)
		},
		SelRegisterMachines: func(ctx context.Context, call *Call) (interface{}, error) {
			m, err := machineFromArgs(call.Args)
			if err != nil {
				return nil, err
			}
			return v.RegisterMachine(ctx, call.Caller, m)
		},
		SelRentMachine: func(ctx context.Context, call *Call) (interface{}, error) {
			machineID, err := call.Args.Int64("machine_id")
			if err != nil {
				return nil, err
			}
			duration, err := call.Args.Int64("duration_hours")
			if err != nil {
				return nil, err
			}
			priceBasis, err := call.Args.Int64("price_basis")
			if err != nil {
				return nil, err
			}
			return v.RentMachine(ctx, call.Caller, machineID, duration, priceBasis)
		},
		SelCompleteOrder: func(ctx context.Context, call *Call) (interface{}, error) {
			orderID, err := call.Args.Int64("order_id")
			if err != nil {
				return nil, err
			}
			return v.CompleteOrder(ctx, orderID)
		},
		SelOwner: func(ctx context.Context, call *Call) (interface{}, error) {
			st, err := state.GetState(ctx)
			if err != nil {
				return nil, err
			}
			return st.Owner, nil
		},
		SelUsers: func(ctx context.Context, call *Call) (interface{}, error) {
			address, err := call.Args.String("address")
			if err != nil {
				return nil, err
			}
			return user.GetUser(ctx, address)
		},
		SelMachines: func(ctx context.Context, call *Call) (interface{}, error) {
			id, err := call.Args.Int64("machine_id")
			if err != nil {
				return nil, err
			}
			return machine.GetMachine(ctx, id)
		},
		SelOrders: func(ctx context.Context, call *Call) (interface{}, error) {
			id, err := call.Args.Int64("order_id")
			if err != nil {
				return nil, err
			}
			return order.GetOrder(ctx, id)
		},
	}
}

func machineFromArgs(args Args) (*machine.Machine, error) {
	cpu, err := args.String("cpu")
	if err != nil {
		return nil, err
	}
	gpu, err := args.String("gpu")
	if err != nil {
		return nil, err
	}
	vcpus, err := args.Int64("vcpus")
	if err != nil {
		return nil, err
	}
	ram, err := args.Int64("ram_gb")
	if err != nil {
		return nil, err
	}
	storage, err := args.Int64("storage_gb")
	if err != nil {
		return nil, err
	}
	netSpeed, err := args.Int64("net_speed")
	if err != nil {
		return nil, err
	}
	ip, err := args.String("ip")
	if err != nil {
		return nil, err
	}
	ports, err := args.Int64Slice("ports")
	if err != nil {
		return nil, err
	}
	region, err := args.String("region")
	if err != nil {
		return nil, err
	}
	price, err := args.Int64("price_per_hour")
	if err != nil {
		return nil, err
	}
	owner, err := args.String("owner")
	if err != nil {
		return nil, err
	}

	return &machine.Machine{
		CPU:          cpu,
		GPU:          gpu,
		VCPUs:        vcpus,
		RAMGB:        ram,
		StorageGB:    storage,
		NetSpeed:     netSpeed,
		IP:           ip,
		Ports:        datatypes.NewJSONSlice(ports),
		Region:       region,
		PricePerHour: price,
		Owner:        owner,
	}, nil
}
