package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"luxestate/internal/model"
)

// PropertyRepository defines property persistence operations.
type PropertyRepository interface {
	List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	Create(ctx context.Context, property *model.Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.PropertyStatus) error
	ListByStatus(ctx context.Context, statuses ...model.PropertyStatus) ([]model.Property, error)
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// List returns properties matching every supplied filter, agent joined.
func (r *propertyRepository) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	q := r.db.WithContext(ctx).Preload("Agent")
	if filter.Type != nil {
		q = q.Where("type = ?", *filter.Type)
	}
	if filter.City != nil {
		q = q.Where("LOWER(location_city) LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.ToLower(*filter.City))+"%")
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}

	properties := []model.Property{}
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// FindByID finds a property by ID with its agent.
func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Preload("Agent").Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// Create inserts a property without touching associations.
func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(property).Error
}

// Delete removes a property. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *propertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Property{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetStatus updates the availability flag only.
func (r *propertyRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.PropertyStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Property{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQL reports zero affected rows when the value is unchanged
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Property{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// ListByStatus returns the id and status of properties in any of statuses.
func (r *propertyRepository) ListByStatus(ctx context.Context, statuses ...model.PropertyStatus) ([]model.Property, error) {
	var properties []model.Property
	if err := r.db.WithContext(ctx).Select("id", "status").
		Where("status IN ?", statuses).
		Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}
