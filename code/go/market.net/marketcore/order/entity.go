package order

import (
	"context"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

// RentalOrder is a lease of a machine for a bounded window. IsPending
// transitions true -> false exactly once, and only once the lease end has
// passed. There is no cancellation path.
type RentalOrder struct {
	ID            int64            `gorm:"column:id;primary_key" json:"id"`
	MachineID     int64            `gorm:"column:machine_id" json:"machine_id"`
	Renter        string           `gorm:"column:renter" json:"renter"`
	DurationHours int64            `gorm:"column:duration_hours" json:"duration_hours"`
	GpointPrice   int64            `gorm:"column:gpoint_price" json:"gpoint_price"`
	StartTime     common.Timestamp `gorm:"column:start_time" json:"start_time"`
	IsPending     bool             `gorm:"column:is_pending" json:"is_pending"`
	datastore.ModelWithTS
}

func (RentalOrder) TableName() string {
	return "rental_orders"
}

var (
	// ErrNotMatured - the lease window has not elapsed. Deliberately bare:
	// this is the one error class a caller retries after time passes, and
	// it must stay distinguishable from authorization/resource failures.
	ErrNotMatured = common.NewError("precondition_not_met", "")

	ErrClosed = common.NewError("order_closed", "order is no longer pending")
)

// LeaseEnd - the timestamp at which the order may be completed.
func (o *RentalOrder) LeaseEnd() common.Timestamp {
	return o.StartTime + common.Timestamp(o.DurationHours*3600)
}

// Matured reports whether the lease window has elapsed at ts.
func (o *RentalOrder) Matured(ts common.Timestamp) bool {
	return ts >= o.LeaseEnd()
}

func GetOrder(ctx context.Context, id int64) (*RentalOrder, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	o := &RentalOrder{}
	err := db.First(o, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (o *RentalOrder) Create(ctx context.Context) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Create(o).Error
}

func (o *RentalOrder) Save(ctx context.Context) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Save(o).Error
}

// CountMaturedPending - pending orders whose lease end has already passed.
func CountMaturedPending(ctx context.Context, ts common.Timestamp) (int64, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	var count int64
	err := db.Model(&RentalOrder{}).
		Where("is_pending = ? AND start_time + duration_hours * 3600 <= ?", true, int64(ts)).
		Count(&count).Error
	return count, err
}
