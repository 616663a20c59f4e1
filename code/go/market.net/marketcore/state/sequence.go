package state

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/marketcore/datastore"
)

const (
	SequenceMachineID = "machine_id"
	SequenceOrderID   = "order_id"

	FirstMachineID = 10001
	FirstOrderID   = 1
)

// Sequence is a monotonic id source. It is never read or written as a
// bare field; allocation goes through AllocateNext inside the dispatch
// transaction, so a failed operation never burns an id.
type Sequence struct {
	Name      string `gorm:"column:name;primary_key" json:"name"`
	NextValue int64  `gorm:"column:next_value" json:"next_value"`
}

func (Sequence) TableName() string {
	return "sequences"
}

func seedSequence(ctx context.Context, name string, start int64) error {
	db := datastore.GetStore().GetTransaction(ctx)
	return db.Create(&Sequence{Name: name, NextValue: start}).Error
}

// AllocateNext returns the sequence head and advances it by one. The row
// is taken with a row-level lock so concurrent dispatches serialize here.
func AllocateNext(ctx context.Context, name string) (int64, error) {
	db := datastore.GetStore().GetTransaction(ctx)

	tx := db.DB
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq Sequence
	if err := tx.First(&seq, "name = ?", name).Error; err != nil {
		return 0, err
	}

	if err := db.Model(&Sequence{}).Where("name = ?", name).
		Update("next_value", seq.NextValue+1).Error; err != nil {
		return 0, err
	}

	return seq.NextValue, nil
}

// PeekNext reads the sequence head without advancing it.
func PeekNext(ctx context.Context, name string) (int64, error) {
	db := datastore.GetStore().GetTransaction(ctx)
	var seq Sequence
	if err := db.First(&seq, "name = ?", name).Error; err != nil {
		return 0, err
	}
	return seq.NextValue, nil
}
