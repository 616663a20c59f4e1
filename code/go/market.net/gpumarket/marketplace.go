package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/handler"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/marketplace"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/proxy"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
)

var marketProxy *proxy.Proxy

// setupMarketplace constructs the proxy around the V1 logic. On first
// boot the configured owner identity is recorded and the id sequences are
// seeded; on a restart the existing state is resumed untouched.
func setupMarketplace() {
	fmt.Print("[5/6] construct marketplace proxy")

	v1 := &marketplace.V1{}
	handler.RegisterLogic(v1)
	handler.RegisterLogic(&marketplace.V2{})

	marketProxy = proxy.New()

	owner := viper.GetString("marketplace.owner")
	if owner == "" {
		panic("Please configure marketplace.owner, the privileged owner identity")
	}

	ctx := common.GetRootContext()
	err := marketProxy.Construct(ctx, owner, marketplace.SelInitialize, v1)
	if err != nil {
		if common.ErrorCode(err) != state.ErrAlreadyInitialized.Code {
			panic(err)
		}
		if err := marketProxy.Resume(v1); err != nil {
			panic(err)
		}
	}

	fmt.Print("	[OK]\n")
}
