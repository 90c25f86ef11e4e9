package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork is the transaction boundary for multi-entity writes. Every
// repository call made with tx inside fn commits or rolls back together.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
	// Reader returns a handle for reads outside a transaction
	Reader(ctx context.Context) *gorm.DB
}
