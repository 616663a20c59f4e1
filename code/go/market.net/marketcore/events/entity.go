package events

import (
	"context"
	"encoding/json"

	shortuuid "github.com/lithammer/shortuuid/v3"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/logging"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

// Event names are part of the wire contract; external callers match on
// them across upgrades.
const (
	UserRegistered = "userRegistered"
	MachineListed  = "MachineListed"
	MachineRented  = "MachineRented"
	CodeUpgraded   = "codeUpgraded"
)

// MarketEvent is an emitted marketplace event, persisted in the same
// transaction as the state change it describes. A rolled-back operation
// leaves no event behind.
type MarketEvent struct {
	ID        string           `gorm:"column:id;primary_key" json:"id"`
	Name      string           `gorm:"column:name" json:"name"`
	Payload   datatypes.JSON   `gorm:"column:payload" json:"payload"`
	EmittedAt common.Timestamp `gorm:"column:emitted_at" json:"emitted_at"`
}

func (MarketEvent) TableName() string {
	return "market_events"
}

func Emit(ctx context.Context, name string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return common.NewErrorf("event_encode_error", "encoding %v payload: %v", name, err)
	}

	ev := &MarketEvent{
		ID:        shortuuid.New(),
		Name:      name,
		Payload:   datatypes.JSON(data),
		EmittedAt: common.Now(),
	}

	db := datastore.GetStore().GetTransaction(ctx)
	if err := db.Create(ev).Error; err != nil {
		return err
	}

	logging.Logger.Debug("event emitted", zap.String("name", name), zap.Any("payload", payload))
	return nil
}

// GetByName loads emitted events in emission order.
func GetByName(ctx context.Context, name string) ([]*MarketEvent, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	evs := make([]*MarketEvent, 0)
	err := db.Where("name = ?", name).Order("emitted_at").Find(&evs).Error
	if err != nil {
		return nil, err
	}
	return evs, nil
}
