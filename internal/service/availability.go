package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"luxestate/internal/cache"
	"luxestate/internal/logger"
	"luxestate/internal/metrics"
	"luxestate/internal/model"
	"luxestate/internal/repository"
)

// AvailabilitySynchronizer keeps a property's status in step with its
// bookings. Its transitions run on repositories bound to the caller's
// transaction so the booking write and the status write commit together.
type AvailabilitySynchronizer struct {
	cache *cache.Client
}

// NewAvailabilitySynchronizer creates a synchronizer that invalidates cached
// properties after their status changes.
func NewAvailabilitySynchronizer(cache *cache.Client) *AvailabilitySynchronizer {
	return &AvailabilitySynchronizer{cache: cache}
}

// desiredStatus derives a property's status from its active booking count.
// Sold is terminal.
func desiredStatus(current model.PropertyStatus, active int64) model.PropertyStatus {
	switch {
	case current == model.PropertyStatusSold:
		return current
	case active > 0:
		return model.PropertyStatusBooked
	default:
		return model.PropertyStatusAvailable
	}
}

// OnBookingCreated marks property booked.
func (s *AvailabilitySynchronizer) OnBookingCreated(ctx context.Context, repos repository.Repositories, property *model.Property) error {
	next := desiredStatus(property.Status, 1)
	if next == property.Status {
		return nil
	}
	if err := repos.Properties.SetStatus(ctx, property.ID, next); err != nil {
		return err
	}
	property.Status = next
	return nil
}

// OnBookingCancelled marks the booking's former property available once no
// active booking holds it. Deleted properties are skipped.
func (s *AvailabilitySynchronizer) OnBookingCancelled(ctx context.Context, repos repository.Repositories, propertyID uuid.UUID) error {
	property, err := repos.Properties.FindByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithContext(ctx).Warn("cancelled booking referenced a deleted property", "property_id", propertyID)
			return nil
		}
		return err
	}
	active, err := repos.Bookings.CountActiveForProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	next := desiredStatus(property.Status, active)
	if next == property.Status {
		return nil
	}
	return repos.Properties.SetStatus(ctx, propertyID, next)
}

// Invalidate drops the cached copy of a property. Call it after commit.
func (s *AvailabilitySynchronizer) Invalidate(ctx context.Context, propertyID uuid.UUID) {
	_ = s.cache.Delete(ctx, propertyCacheKey(propertyID))
}

// ReconcileResult summarises a reconciliation sweep.
type ReconcileResult struct {
	Checked  int
	Booked   int
	Released int
}

// Repaired is the number of statuses changed.
func (r ReconcileResult) Repaired() int {
	return r.Booked + r.Released
}

// Reconciler periodically compares property statuses with active bookings
// and repairs drift.
type Reconciler struct {
	tx         repository.TxManager
	properties repository.PropertyRepository
	bookings   repository.BookingRepository
	sync       *AvailabilitySynchronizer
}

// NewReconciler creates a Reconciler.
func NewReconciler(
	tx repository.TxManager,
	properties repository.PropertyRepository,
	bookings repository.BookingRepository,
	sync *AvailabilitySynchronizer,
) *Reconciler {
	return &Reconciler{
		tx:         tx,
		properties: properties,
		bookings:   bookings,
		sync:       sync,
	}
}

// Reconcile runs one sweep. Candidates are found from a snapshot and each is
// re-checked inside its own transaction before being written.
func (r *Reconciler) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	activeIDs, err := r.bookings.ActivePropertyIDs(ctx)
	if err != nil {
		return result, err
	}
	held := make(map[uuid.UUID]struct{}, len(activeIDs))
	for _, id := range activeIDs {
		held[id] = struct{}{}
	}

	properties, err := r.properties.ListByStatus(ctx, model.PropertyStatusAvailable, model.PropertyStatusBooked)
	if err != nil {
		return result, err
	}

	log := logger.WithContext(ctx)
	for _, p := range properties {
		result.Checked++
		_, isHeld := held[p.ID]
		if (p.Status == model.PropertyStatusBooked) == isHeld {
			continue
		}

		var changedTo model.PropertyStatus
		err := r.tx.WithTransaction(ctx, func(ctx context.Context, repos repository.Repositories) error {
			current, err := repos.Properties.FindByID(ctx, p.ID)
			if err != nil {
				return err
			}
			active, err := repos.Bookings.CountActiveForProperty(ctx, p.ID)
			if err != nil {
				return err
			}
			next := desiredStatus(current.Status, active)
			if next == current.Status {
				return nil
			}
			changedTo = next
			return repos.Properties.SetStatus(ctx, p.ID, next)
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return result, err
		}
		if changedTo == "" {
			continue
		}

		r.sync.Invalidate(ctx, p.ID)
		metrics.AvailabilityRepairs.WithLabelValues(string(changedTo)).Inc()
		if changedTo == model.PropertyStatusBooked {
			result.Booked++
		} else {
			result.Released++
		}
		log.Warn("repaired property status", "property_id", p.ID, "from", p.Status, "to", changedTo)
	}
	return result, nil
}

// Run sweeps every interval until ctx is cancelled. Sweep errors are logged
// and do not stop the loop.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.WithContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			result, err := r.Reconcile(ctx)
			if err != nil {
				log.Error("availability reconciliation failed", "error", err)
				continue
			}
			log.Debug("availability reconciliation finished", "checked", result.Checked, "repaired", result.Repaired())
		}
	}
}
