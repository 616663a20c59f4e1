package marketplace

import (
	"context"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/schema"
)

// Selector names are the stable wire contract; they survive upgrades.
const (
	SelInitialize       = "initialize"
	SelSetKeys          = "setKeys"
	SelRegisterUser     = "registerUser"
	SelRegisterMachines = "registerMachines"
	SelRentMachine      = "rentMachine"
	SelCompleteOrder    = "completeOrder"
	SelOwner            = "owner"
	SelUsers            = "users"
	SelMachines         = "machines"
	SelOrders           = "orders"

	// V2-era selectors.
	SelIncrease  = "increase"
	SelMachineID = "machineId"
	SelCounter   = "counter"
)

// Call is a forwarded invocation: the original caller identity, the
// selector and the raw arguments. The proxy passes it through unchanged.
type Call struct {
	Caller   string `json:"caller"`
	Selector string `json:"selector"`
	Args     Args   `json:"args"`
}

// SelectorFunc executes one operation against the storage scope carried
// in ctx.
type SelectorFunc func(ctx context.Context, call *Call) (interface{}, error)

// Logic is a replaceable implementation of the marketplace business
// rules. A later version must keep the earlier version's Layout as a
// prefix of its own.
type Logic interface {
	Name() string
	Version() int
	Layout() schema.Layout
	Selectors() map[string]SelectorFunc
}
