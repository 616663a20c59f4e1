package automigration

import (
	"gorm.io/gorm"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/events"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/machine"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/order"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/state"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/user"
)

// MigrateSchema creates or extends all marketplace tables. Columns are
// only ever appended, never reordered or retyped, matching the layout
// rule enforced at logic activation.
func MigrateSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&state.MarketState{},
		&state.Sequence{},
		&user.User{},
		&machine.Machine{},
		&order.RentalOrder{},
		&events.MarketEvent{},
	)
}
