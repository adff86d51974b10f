package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"luxestate/internal/cache"
	"luxestate/internal/config"
	apperrors "luxestate/internal/errors"
	"luxestate/internal/logger"
	"luxestate/internal/model"
	"luxestate/internal/repository"
)

const propertyCacheTTL = 5 * time.Minute

// PropertyService manages the property registry.
type PropertyService interface {
	List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Property, error)
	Create(ctx context.Context, property *model.Property, ownerID uuid.UUID) (*model.Property, error)
	Delete(ctx context.Context, id, callerID uuid.UUID) error
}

type propertyService struct {
	repo     repository.PropertyRepository
	userRepo repository.UserRepository
	cache    *cache.Client
	policy   config.Policy
}

// NewPropertyService creates a new property service.
func NewPropertyService(
	repo repository.PropertyRepository,
	userRepo repository.UserRepository,
	cache *cache.Client,
	policy config.Policy,
) PropertyService {
	return &propertyService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cache,
		policy:   policy,
	}
}

func propertyCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("property:%s", id.String())
}

// List returns the properties matching filter.
func (s *propertyService) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperrors.Validation("unknown property type %q", *filter.Type)
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.Validation("unknown property status %q", *filter.Status)
	}
	properties, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Unexpected("list properties", err)
	}
	return properties, nil
}

// Get retrieves a property by ID with caching.
func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var cached model.Property
	if s.cache.GetJSON(ctx, propertyCacheKey(id), &cached) {
		return &cached, nil
	}

	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, apperrors.Unexpected("find property", err)
	}

	s.cache.SetJSON(ctx, propertyCacheKey(id), property, propertyCacheTTL)
	return property, nil
}

// Create persists a new property owned by ownerID. New listings always start
// available.
func (s *propertyService) Create(ctx context.Context, property *model.Property, ownerID uuid.UUID) (*model.Property, error) {
	if err := validateProperty(property); err != nil {
		return nil, err
	}
	if s.policy.EnforceOwnership {
		owner, err := s.userRepo.FindByID(ctx, ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.Unexpected("find user", err)
		}
		if owner.Role != model.RoleAgent && owner.Role != model.RoleAdmin {
			return nil, apperrors.Forbidden("only agents can list properties")
		}
	}

	property.ID = uuid.Nil
	property.AgentID = ownerID
	property.Agent = nil
	property.Status = model.PropertyStatusAvailable
	if err := s.repo.Create(ctx, property); err != nil {
		return nil, apperrors.Unexpected("create property", err)
	}

	created, err := s.repo.FindByID(ctx, property.ID)
	if err != nil {
		return nil, apperrors.Unexpected("reload property", err)
	}
	logger.WithContext(ctx).Info("property created", "property_id", created.ID, "agent_id", ownerID)
	return created, nil
}

// Delete removes a property. Ownership is only checked when the policy
// enforces it.
func (s *propertyService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	property, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPropertyNotFound
		}
		return apperrors.Unexpected("find property", err)
	}
	if s.policy.EnforceOwnership && property.AgentID != callerID {
		if err := requireAdmin(ctx, s.userRepo, callerID, "only the owning agent can delete this property"); err != nil {
			return err
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrPropertyNotFound
		}
		return apperrors.Unexpected("delete property", err)
	}
	_ = s.cache.Delete(ctx, propertyCacheKey(id))

	logger.WithContext(ctx).Info("property deleted", "property_id", id)
	return nil
}

func validateProperty(p *model.Property) error {
	switch {
	case p == nil:
		return apperrors.Validation("property is required")
	case strings.TrimSpace(p.Title) == "":
		return apperrors.Validation("title is required")
	case strings.TrimSpace(p.Description) == "":
		return apperrors.Validation("description is required")
	case p.Type == "":
		return apperrors.Validation("type is required")
	case !p.Type.Valid():
		return apperrors.Validation("type must be one of apartment, house, villa, condo, townhouse, studio")
	case p.Price.IsNegative():
		return apperrors.Validation("price must not be negative")
	}
	return nil
}

// requireAdmin returns Forbidden with msg unless callerID is an admin.
func requireAdmin(ctx context.Context, users repository.UserRepository, callerID uuid.UUID, msg string) error {
	caller, err := users.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Forbidden(msg)
		}
		return apperrors.Unexpected("find user", err)
	}
	if caller.Role != model.RoleAdmin {
		return apperrors.Forbidden(msg)
	}
	return nil
}
