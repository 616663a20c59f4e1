package main

import (
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/order"
)

func setupWorkers() {
	var root = common.GetRootContext()
	order.SetupWorkers(root)
}
