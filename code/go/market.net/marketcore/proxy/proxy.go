package proxy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/authorization"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/events"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/marketplace"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/schema"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
)

var (
	ErrAlreadyInitialized = common.NewError("already_initialized", "proxy is already constructed")
	ErrNotInitialized     = common.NewError("not_initialized", "proxy is not constructed")
)

// Proxy is the stable front door of the marketplace. Callers never hold a
// reference to a logic implementation; every call goes through Dispatch,
// which forwards it into whichever implementation is currently active,
// against the shared storage scope. Swapping the implementation does not
// change the proxy's identity or lose any persisted state.
type Proxy struct {
	mu          sync.RWMutex
	logic       marketplace.Logic
	constructed bool
}

func New() *Proxy {
	return &Proxy{}
}

// Construct performs one-time setup: the given logic becomes the active
// implementation and initSelector is immediately forwarded into it, so
// the logic's own init runs against the proxy's storage with the
// construct caller as the recorded owner. Calling Construct twice fails.
func (p *Proxy) Construct(ctx context.Context, caller, initSelector string, logic marketplace.Logic) error {
	p.mu.Lock()
	if p.constructed {
		p.mu.Unlock()
		return ErrAlreadyInitialized
	}
	p.logic = logic
	p.constructed = true
	p.mu.Unlock()

	_, err := p.Dispatch(ctx, &marketplace.Call{Caller: caller, Selector: initSelector})
	if err != nil {
		// Deployment-time misuse; leave the proxy unusable rather than
		// half-initialized.
		p.mu.Lock()
		p.logic = nil
		p.constructed = false
		p.mu.Unlock()
		return err
	}

	logging.Logger.Info("proxy constructed",
		zap.String("logic", logic.Name()),
		zap.String("owner", caller))
	return nil
}

// Resume activates a logic over already-initialized storage without
// running its init selector. Used on process restart, where the state row
// from the original construction still exists.
func (p *Proxy) Resume(logic marketplace.Logic) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.constructed {
		return ErrAlreadyInitialized
	}
	p.logic = logic
	p.constructed = true
	return nil
}

// UpdateCode atomically replaces the active implementation. Owner only.
// No storage migration happens here: the new logic must declare the
// active layout as a prefix of its own, and is refused otherwise.
func (p *Proxy) UpdateCode(ctx context.Context, caller string, next marketplace.Logic) error {
	p.mu.RLock()
	current := p.logic
	constructed := p.constructed
	p.mu.RUnlock()

	if !constructed {
		return ErrNotInitialized
	}

	if err := schema.VerifyPrefix(current.Layout(), next.Layout()); err != nil {
		return err
	}

	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		if err := authorization.Authorize(ctx, caller, authorization.RoleOwner); err != nil {
			return err
		}
		st, err := state.GetState(ctx)
		if err != nil {
			return err
		}
		st.Upgrades++
		if err := st.Save(ctx); err != nil {
			return err
		}
		return events.Emit(ctx, events.CodeUpgraded, map[string]interface{}{
			"old": current.Name(),
			"new": next.Name(),
		})
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.logic = next
	p.mu.Unlock()

	logging.Logger.Info("logic implementation updated",
		zap.String("old", current.Name()),
		zap.String("new", next.Name()))
	return nil
}

// Current returns the name and version of the active implementation.
func (p *Proxy) Current() (string, int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.constructed {
		return "", 0, ErrNotInitialized
	}
	return p.logic.Name(), p.logic.Version(), nil
}

// Dispatch forwards a call into the active implementation. Each dispatch
// runs in exactly one datastore transaction: the operation either commits
// all of its writes and events or rolls back to a no-op, and the inner
// error is propagated to the caller verbatim.
func (p *Proxy) Dispatch(ctx context.Context, call *marketplace.Call) (interface{}, error) {
	p.mu.RLock()
	logic := p.logic
	constructed := p.constructed
	p.mu.RUnlock()

	if !constructed {
		return nil, ErrNotInitialized
	}

	sel, ok := logic.Selectors()[call.Selector]
	if !ok {
		return nil, common.NewErrorf("unknown_selector", "no operation %q in %v", call.Selector, logic.Name())
	}

	var result interface{}
	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		var err error
		result, err = sel(ctx, call)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
