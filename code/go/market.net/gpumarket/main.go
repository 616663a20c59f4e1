package main

import (
	"context"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
)

func main() {
	parseFlags()

	setupConfig()

	setupLogging()

	common.SetupRootContext(context.Background())

	setupDatabase()

	setupMarketplace()

	setupWorkers()

	startHTTPServer()
}
