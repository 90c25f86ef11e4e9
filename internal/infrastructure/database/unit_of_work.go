package database

import (
	"context"

	domainRepo "lab-booking-engine/internal/domain/repository"

	"gorm.io/gorm"
)

type gormUnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &gormUnitOfWork{db: db}
}

// Do runs fn inside one database transaction; any error rolls everything back
func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}

func (u *gormUnitOfWork) Reader(ctx context.Context) *gorm.DB {
	return u.db.WithContext(ctx)
}
