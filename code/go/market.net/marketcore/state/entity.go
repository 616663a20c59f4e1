package state

import (
	"context"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

// stateID - the market state is a single row.
const stateID = 1

// MarketState holds the marketplace-wide slots: the owner identity, the
// two registrar keys and the trailing upgrade-era fields. Columns are
// append-only across logic versions.
type MarketState struct {
	ID          int64  `gorm:"column:id;primary_key" json:"id"`
	Initialized bool   `gorm:"column:initialized" json:"initialized"`
	Owner       string `gorm:"column:owner" json:"owner"`
	KeyA        string `gorm:"column:key_a" json:"key_a"`
	KeyB        string `gorm:"column:key_b" json:"key_b"`
	Upgrades    int64  `gorm:"column:upgrades" json:"upgrades"`
	Counter     int64  `gorm:"column:counter" json:"counter"`
	datastore.ModelWithTS
}

func (MarketState) TableName() string {
	return "market_state"
}

var ErrAlreadyInitialized = common.NewError("already_initialized", "marketplace state is already initialized")

// GetState loads the singleton state row.
func GetState(ctx context.Context) (*MarketState, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	st := &MarketState{}
	err := db.First(st, "id = ?", stateID).Error
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (st *MarketState) Save(ctx context.Context) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Save(st).Error
}

// Bootstrap creates the state row and seeds the id sequences. Called once,
// from the forwarded init selector during proxy construction.
func Bootstrap(ctx context.Context, owner string) error {
	db := datastore.GetStore().GetTransaction(ctx)

	var count int64
	if err := db.Model(&MarketState{}).Where("id = ?", stateID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyInitialized
	}

	st := &MarketState{ID: stateID, Initialized: true, Owner: owner}
	if err := db.Create(st).Error; err != nil {
		return err
	}

	if err := seedSequence(ctx, SequenceMachineID, FirstMachineID); err != nil {
		return err
	}
	return seedSequence(ctx, SequenceOrderID, FirstOrderID)
}
