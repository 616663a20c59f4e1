package datastore

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"github.com/brahmGAN/gpu-contracts/code/go/market.net/core/common"
)

// ContextKeyTransaction - the gorm transaction of the current dispatch is
// carried in the context under this key.
const ContextKeyTransaction common.ContextKey = "connection"

// Store abstracts the persistent marketplace state area. Exactly one
// implementation is active at a time; tests swap in mock stores.
type Store interface {
	Open() error
	Close()
	CreateTransaction(ctx context.Context, opts ...*sql.TxOptions) context.Context
	GetTransaction(ctx context.Context) *EnhancedDB
	// WithNewTransaction runs f inside a fresh transaction, committing on
	// nil and rolling back on error. All marketplace dispatches go through
	// this: an operation either lands fully or not at all.
	WithNewTransaction(f func(ctx context.Context) error) error
	WithTransaction(ctx context.Context, f func(ctx context.Context) error) error
	GetDB() *gorm.DB
}

var instance Store = &postgresStore{}

func GetStore() Store {
	return instance
}
