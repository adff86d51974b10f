package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups the repositories that take part in a booking
// transaction.
type Repositories struct {
	Properties PropertyRepository
	Bookings   BookingRepository
}

// TxManager runs work against repositories bound to a single transaction.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a GORM transaction manager.
func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

// WithTransaction commits when fn returns nil and rolls back otherwise.
func (m *txManager) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, Repositories{
			Properties: &propertyRepository{db: tx},
			Bookings:   &bookingRepository{db: tx},
		})
	})
}
