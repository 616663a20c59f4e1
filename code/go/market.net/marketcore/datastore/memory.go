package datastore

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var memDBCount int64

// UseInMemory set the DB instance to an in-memory DB using SQLite.
// Every call opens a fresh database so tests stay isolated.
func UseInMemory() (*gorm.DB, error) {
	n := atomic.AddInt64(&memDBCount, 1)
	gdb, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:marketmem%d?mode=memory&cache=shared", n)),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
	if err != nil {
		return nil, err
	}

	// cache=shared keeps all pooled connections on the same database; a
	// single connection avoids table-lock races inside one test.
	if sqldb, err := gdb.DB(); err == nil {
		sqldb.SetMaxOpenConns(1)
	}

	instance = &postgresStore{
		db: gdb,
	}

	return gdb, nil
}
