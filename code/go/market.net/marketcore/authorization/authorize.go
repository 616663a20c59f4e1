package authorization

import (
	"context"
	"fmt"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
)

// Role - the capability tier an operation requires.
type Role int

const (
	// RoleOwner - the single privileged identity set at construction.
	RoleOwner Role = iota
	// RoleRegistrarKey - one of the two owner-assigned machine-listing keys.
	RoleRegistrarKey
)

// String implements fmt.Stringer interface.
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleRegistrarKey:
		return "registrar_key"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

var (
	ErrUnauthorizedCall    = common.NewError("unauthorized_call", "Unauthorized call")
	ErrUnauthorizedRequest = common.NewError("unauthorized_request", "Unauthorized request")
)

// Authorize is the single enforcement point for caller identity. Owner
// failures surface as "Unauthorized call", registrar failures as
// "Unauthorized request"; callers depend on the distinction.
func Authorize(ctx context.Context, caller string, required Role) error {
	st, err := state.GetState(ctx)
	if err != nil {
		return err
	}

	switch required {
	case RoleOwner:
		if caller != "" && caller == st.Owner {
			return nil
		}
		return ErrUnauthorizedCall
	case RoleRegistrarKey:
		// Keys are zero until setKeys runs; the empty-caller guard keeps
		// unset keys from matching an anonymous request.
		if caller != "" && (caller == st.KeyA || caller == st.KeyB) {
			return nil
		}
		return ErrUnauthorizedRequest
	}
	return ErrUnauthorizedCall
}
