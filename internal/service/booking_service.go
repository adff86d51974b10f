package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"luxestate/internal/config"
	apperrors "luxestate/internal/errors"
	"luxestate/internal/logger"
	"luxestate/internal/metrics"
	"luxestate/internal/model"
	"luxestate/internal/repository"
)

// CreateBookingInput carries the fields of a booking request. Guests of zero
// means the default of one.
type CreateBookingInput struct {
	PropertyID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Guests     int
	TotalPrice *decimal.Decimal
}

// BookingService manages the booking ledger.
type BookingService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error)
	Create(ctx context.Context, in CreateBookingInput, userID uuid.UUID) (*model.Booking, error)
	Cancel(ctx context.Context, id, requesterID uuid.UUID) error
}

type bookingService struct {
	tx       repository.TxManager
	bookings repository.BookingRepository
	users    repository.UserRepository
	sync     *AvailabilitySynchronizer
	policy   config.Policy
}

// NewBookingService creates a new booking service.
func NewBookingService(
	tx repository.TxManager,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	sync *AvailabilitySynchronizer,
	policy config.Policy,
) BookingService {
	return &bookingService{
		tx:       tx,
		bookings: bookings,
		users:    users,
		sync:     sync,
		policy:   policy,
	}
}

// ListForUser returns the user's bookings, newest first.
func (s *bookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Booking, error) {
	bookings, err := s.bookings.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Unexpected("list bookings", err)
	}
	return bookings, nil
}

// Create persists a booking and marks its property booked in the same
// transaction.
func (s *bookingService) Create(ctx context.Context, in CreateBookingInput, userID uuid.UUID) (*model.Booking, error) {
	if err := validateBooking(in); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		PropertyID: in.PropertyID,
		UserID:     userID,
		StartDate:  in.StartDate.UTC(),
		EndDate:    in.EndDate.UTC(),
		Guests:     in.Guests,
		TotalPrice: *in.TotalPrice,
		Status:     model.BookingStatusPending,
	}

	var created *model.Booking
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		property, err := repos.Properties.FindByID(ctx, in.PropertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrPropertyNotFound
			}
			return apperrors.Unexpected("find property", err)
		}

		if s.policy.RejectOverlaps {
			overlapping, err := repos.Bookings.FindOverlapping(ctx, property.ID, booking.StartDate, booking.EndDate)
			if err != nil {
				return apperrors.Unexpected("check overlapping bookings", err)
			}
			if len(overlapping) > 0 {
				return apperrors.Conflict("property is already booked for the requested dates")
			}
		}

		if err := repos.Bookings.Create(ctx, booking); err != nil {
			return apperrors.Unexpected("create booking", err)
		}
		if err := s.sync.OnBookingCreated(ctx, repos, property); err != nil {
			return apperrors.Unexpected("mark property booked", err)
		}

		created, err = repos.Bookings.FindByID(ctx, booking.ID)
		if err != nil {
			return apperrors.Unexpected("reload booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sync.Invalidate(ctx, created.PropertyID)
	metrics.BookingsCreated.Inc()
	logger.WithContext(ctx).Info("booking created",
		"booking_id", created.ID,
		"property_id", created.PropertyID,
	)
	return created, nil
}

// Cancel deletes a booking and releases its property when no other active
// booking holds it. Requester ownership is only checked when the policy
// enforces it.
func (s *bookingService) Cancel(ctx context.Context, id, requesterID uuid.UUID) error {
	isAdmin := false
	if s.policy.EnforceOwnership {
		admin, err := s.isAdmin(ctx, requesterID)
		if err != nil {
			return err
		}
		isAdmin = admin
	}

	var propertyID uuid.UUID
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
		booking, err := repos.Bookings.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBookingNotFound
			}
			return apperrors.Unexpected("find booking", err)
		}
		if s.policy.EnforceOwnership && booking.UserID != requesterID && !isAdmin {
			return apperrors.Forbidden("only the booking's owner can cancel it")
		}

		if err := repos.Bookings.Delete(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBookingNotFound
			}
			return apperrors.Unexpected("delete booking", err)
		}
		if err := s.sync.OnBookingCancelled(ctx, repos, booking.PropertyID); err != nil {
			return apperrors.Unexpected("release property", err)
		}
		propertyID = booking.PropertyID
		return nil
	})
	if err != nil {
		return err
	}

	s.sync.Invalidate(ctx, propertyID)
	metrics.BookingsCancelled.Inc()
	logger.WithContext(ctx).Info("booking cancelled", "booking_id", id, "property_id", propertyID)
	return nil
}

// isAdmin looks up the requester's role outside any transaction.
func (s *bookingService) isAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, apperrors.Unexpected("find user", err)
	}
	return user.Role == model.RoleAdmin, nil
}

func validateBooking(in CreateBookingInput) error {
	switch {
	case in.PropertyID == uuid.Nil:
		return apperrors.Validation("property is required")
	case in.StartDate.IsZero():
		return apperrors.Validation("startDate is required")
	case in.EndDate.IsZero():
		return apperrors.Validation("endDate is required")
	case in.TotalPrice == nil:
		return apperrors.Validation("totalPrice is required")
	case in.Guests < 0:
		return apperrors.Validation("guests must be at least 1")
	}
	return nil
}
