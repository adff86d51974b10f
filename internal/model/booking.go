package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// Active reports whether the booking still holds its property.
func (s BookingStatus) Active() bool {
	return s != BookingStatusCancelled
}

// Booking is a user's reservation of a property for a date range.
type Booking struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	PropertyID uuid.UUID       `json:"propertyId" gorm:"type:char(36);not null;index"`
	UserID     uuid.UUID       `json:"user" gorm:"type:char(36);not null;index"`
	StartDate  time.Time       `json:"startDate" gorm:"not null"`
	EndDate    time.Time       `json:"endDate" gorm:"not null"`
	Guests     int             `json:"guests" gorm:"not null;default:1"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(20,2);not null"`
	Status     BookingStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time       `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time       `json:"-"`

	// Relations
	Property *Property `json:"property" gorm:"foreignKey:PropertyID"`
}

// BeforeCreate sets UUID and defaults before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Guests == 0 {
		b.Guests = 1
	}
	if b.Status == "" {
		b.Status = BookingStatusPending
	}
	return nil
}

// Overlaps reports whether b's date range intersects [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartDate.Before(end) && start.Before(b.EndDate)
}
