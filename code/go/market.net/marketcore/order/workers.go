package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/config"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

// SetupWorkers starts the matured-order report worker. Settlement stays
// caller-driven; this only surfaces how many leases have run out without
// a completeOrder call yet.
func SetupWorkers(ctx context.Context) {
	go startMaturedOrderReport(ctx)
}

func startMaturedOrderReport(ctx context.Context) {
	freq := config.Configuration.OrderReportFreq
	if freq <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(freq) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reportMaturedOrders()
		}
	}
}

func reportMaturedOrders() {
	err := datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
		count, err := CountMaturedPending(ctx, common.Now())
		if err != nil {
			return err
		}
		if count > 0 {
			logging.Logger.Info("orders awaiting completion",
				zap.Int64("matured_pending", count))
		}
		return nil
	})
	if err != nil {
		logging.Logger.Error("matured order report failed", zap.Error(err))
	}
}
