package user

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

// User is a registered renter keyed by caller identity. Gpoints is the
// prepaid credit balance rent debits draw from; it never goes negative.
type User struct {
	Address string `gorm:"column:address;primary_key" json:"address"`
	RefID   string `gorm:"column:ref_id" json:"ref_id"`
	Gpoints int64  `gorm:"column:gpoints" json:"gpoints"`
	Name    string `gorm:"column:name" json:"name"`
	datastore.ModelWithTS
}

func (User) TableName() string {
	return "users"
}

var ErrInsufficientGpoints = common.NewError("insufficient_gpoints", "Not enough Gpoints")

func GetUser(ctx context.Context, address string) (*User, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	u := &User{}
	err := db.First(u, "address = ?", address).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Upsert creates the user record or overwrites an existing one in place.
// Re-registration intentionally replaces ref id, balance and name.
func Upsert(ctx context.Context, u *User) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		UpdateAll: true,
	}).Create(u).Error
}

func (u *User) Save(ctx context.Context) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Save(u).Error
}

// Debit reduces the balance in memory; the caller persists with Save
// inside the same transaction. Fails without change if the balance
// cannot cover the amount.
func (u *User) Debit(amount int64) error {
	if amount < 0 {
		return common.InvalidRequest("negative debit amount")
	}
	if u.Gpoints < amount {
		return ErrInsufficientGpoints
	}
	u.Gpoints -= amount
	return nil
}
