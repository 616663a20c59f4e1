package main

import (
	"fmt"
	"time"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/automigration"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

func setupDatabase() {
	fmt.Print("[4/6] connect data store")

	// check for database connection
	var err error
	for i := 60; i > 0; i-- {
		if err = datastore.GetStore().Open(); err == nil {
			break
		}
		if i == 1 { // no more attempts
			logging.Logger.Error("Failed to connect to the database. Shutting the server down")
			panic(err)
		}
		time.Sleep(1 * time.Second)
	}

	if err := automigration.MigrateSchema(datastore.GetStore().GetDB()); err != nil {
		panic(err)
	}

	fmt.Print("	[OK]\n")
}
