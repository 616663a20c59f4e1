package datastore

import (
	"gorm.io/gorm"
)

// EnhancedDB wraps the gorm transaction handed out to entity packages.
type EnhancedDB struct {
	*gorm.DB
}

func EnhanceDB(db *gorm.DB) *EnhancedDB {
	return &EnhancedDB{DB: db}
}
