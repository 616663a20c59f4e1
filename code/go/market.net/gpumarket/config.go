package main

import (
	"fmt"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/config"
)

func setupConfig() {
	fmt.Print("[2/6] load config")

	config.SetupDefaultConfig()
	config.SetupConfig(configDir)

	config.Configuration.DeploymentMode = byte(deploymentMode)

	fmt.Print("		[OK]\n")
}
