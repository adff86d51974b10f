package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"luxestate/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveForProperty(ctx context.Context, propertyID uuid.UUID) (int64, error)
	FindOverlapping(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]model.Booking, error)
	ActivePropertyIDs(ctx context.Context) ([]uuid.UUID, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// ListForUser returns the user's bookings, newest first, property joined.
func (r *bookingRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	bookings := []model.Booking{}
	if err := r.db.WithContext(ctx).Preload("Property").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindByID finds a booking by ID with its property.
func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Preload("Property").Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a booking without touching its property.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
}

// Delete hard-deletes a booking. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Booking{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActiveForProperty counts bookings on the property that are not cancelled.
func (r *bookingRepository) CountActiveForProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("property_id = ? AND status <> ?", propertyID, model.BookingStatusCancelled).
		Count(&count).Error
	return count, err
}

// FindOverlapping returns active bookings on the property whose range
// intersects [start, end).
func (r *bookingRepository) FindOverlapping(ctx context.Context, propertyID uuid.UUID, start, end time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND status <> ?", propertyID, model.BookingStatusCancelled).
		Where("start_date < ? AND end_date > ?", end, start).
		Find(&bookings).Error
	return bookings, err
}

// ActivePropertyIDs returns the distinct properties held by an active booking.
func (r *bookingRepository) ActivePropertyIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("status <> ?", model.BookingStatusCancelled).
		Distinct().
		Pluck("property_id", &ids).Error
	return ids, err
}
