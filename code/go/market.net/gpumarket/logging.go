package main

import (
	"fmt"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/config"
)

func setupLogging() {
	fmt.Print("[3/6] init logging")

	if config.Development() {
		logging.InitLogging("development", logDir, "gpuMarketplace.log")
	} else {
		logging.InitLogging("production", logDir, "gpuMarketplace.log")
	}

	fmt.Print("		[OK]\n")
}
