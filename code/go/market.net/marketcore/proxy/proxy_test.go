package proxy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/marketplace"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/proxy"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/schema"
)

// stubLogic is a minimal implementation for exercising the proxy
// forwarding rules without the full marketplace storage.
type stubLogic struct {
	name     string
	failInit bool
	initBy   []string
}

func (l *stubLogic) Name() string { return l.name }

func (l *stubLogic) Version() int { return 1 }

func (l *stubLogic) Layout() schema.Layout {
	return schema.Layout{{Name: "initialized", Kind: schema.Bool}}
}

func (l *stubLogic) Selectors() map[string]marketplace.SelectorFunc {
	return map[string]marketplace.SelectorFunc{
		"initialize": func(ctx context.Context, call *marketplace.Call) (interface{}, error) {
			if l.failInit {
				return nil, common.NewError("boom", "init failed")
			}
			l.initBy = append(l.initBy, call.Caller)
			return nil, nil
		},
		"ping": func(ctx context.Context, call *marketplace.Call) (interface{}, error) {
			return "pong:" + call.Caller, nil
		},
	}
}

func setupStore(t *testing.T) {
	t.Helper()
	_, err := datastore.UseInMemory()
	require.NoError(t, err)
}

func TestProxy_BeforeConstruct(t *testing.T) {
	p := proxy.New()

	_, err := p.Dispatch(context.Background(), &marketplace.Call{Caller: "a", Selector: "ping"})
	require.Equal(t, proxy.ErrNotInitialized, err)

	_, _, err = p.Current()
	require.Equal(t, proxy.ErrNotInitialized, err)

	err = p.UpdateCode(context.Background(), "a", &stubLogic{name: "next"})
	require.Equal(t, proxy.ErrNotInitialized, err)
}

func TestProxy_ConstructForwardsInit(t *testing.T) {
	setupStore(t)

	logic := &stubLogic{name: "stub"}
	p := proxy.New()
	require.NoError(t, p.Construct(context.Background(), "deployer", "initialize", logic))

	// the construct caller's identity reached the logic unchanged
	require.Equal(t, []string{"deployer"}, logic.initBy)

	name, version, err := p.Current()
	require.NoError(t, err)
	require.Equal(t, "stub", name)
	require.Equal(t, 1, version)
}

func TestProxy_ConstructTwice(t *testing.T) {
	setupStore(t)

	p := proxy.New()
	require.NoError(t, p.Construct(context.Background(), "deployer", "initialize", &stubLogic{name: "stub"}))

	err := p.Construct(context.Background(), "deployer", "initialize", &stubLogic{name: "again"})
	require.Equal(t, proxy.ErrAlreadyInitialized, err)
}

func TestProxy_ConstructFailureLeavesUnconstructed(t *testing.T) {
	setupStore(t)

	p := proxy.New()
	err := p.Construct(context.Background(), "deployer", "initialize", &stubLogic{name: "bad", failInit: true})
	require.Error(t, err)
	require.Equal(t, "boom", common.ErrorCode(err))

	// a failed construction does not leave a half-built proxy behind
	_, _, err = p.Current()
	require.Equal(t, proxy.ErrNotInitialized, err)

	require.NoError(t, p.Construct(context.Background(), "deployer", "initialize", &stubLogic{name: "good"}))
}

func TestProxy_DispatchPreservesCaller(t *testing.T) {
	setupStore(t)

	p := proxy.New()
	require.NoError(t, p.Construct(context.Background(), "deployer", "initialize", &stubLogic{name: "stub"}))

	result, err := p.Dispatch(context.Background(), &marketplace.Call{Caller: "visitor", Selector: "ping"})
	require.NoError(t, err)
	require.Equal(t, "pong:visitor", result)
}

func TestProxy_UnknownSelector(t *testing.T) {
	setupStore(t)

	p := proxy.New()
	require.NoError(t, p.Construct(context.Background(), "deployer", "initialize", &stubLogic{name: "stub"}))

	_, err := p.Dispatch(context.Background(), &marketplace.Call{Caller: "a", Selector: "nonesuch"})
	require.Error(t, err)
	require.Equal(t, "unknown_selector", common.ErrorCode(err))
}

func TestProxy_Resume(t *testing.T) {
	setupStore(t)

	p := proxy.New()
	require.NoError(t, p.Resume(&stubLogic{name: "stub"}))

	// resuming skips the init selector entirely
	result, err := p.Dispatch(context.Background(), &marketplace.Call{Caller: "visitor", Selector: "ping"})
	require.NoError(t, err)
	require.Equal(t, "pong:visitor", result)

	require.Equal(t, proxy.ErrAlreadyInitialized, p.Resume(&stubLogic{name: "again"}))
}
