package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// PropertyType is the listing category.
type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeCondo     PropertyType = "condo"
	PropertyTypeTownhouse PropertyType = "townhouse"
	PropertyTypeStudio    PropertyType = "studio"
)

// Valid reports whether t is one of the fixed categories.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeVilla,
		PropertyTypeCondo, PropertyTypeTownhouse, PropertyTypeStudio:
		return true
	}
	return false
}

// PropertyStatus is the availability flag of a property.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusBooked    PropertyStatus = "booked"
	PropertyStatusSold      PropertyStatus = "sold"
)

// Valid reports whether s is a known status.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusBooked, PropertyStatusSold:
		return true
	}
	return false
}

// Location is the address block of a property.
type Location struct {
	Address string `json:"address,omitempty" gorm:"size:255"`
	City    string `json:"city,omitempty" gorm:"size:120;index"`
	State   string `json:"state,omitempty" gorm:"size:120"`
	ZipCode string `json:"zipCode,omitempty" gorm:"size:20"`
}

// Features are the physical attributes of a property.
type Features struct {
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	Area      float64 `json:"area"`
	Parking   int     `json:"parking"`
	Furnished bool    `json:"furnished"`
}

// Property is a rentable listing owned by an agent.
type Property struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Type        PropertyType    `json:"type" gorm:"type:varchar(20);not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null;index"`
	Location    Location        `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Features    Features        `json:"features" gorm:"embedded;embeddedPrefix:feature_"`
	Amenities   []string        `json:"amenities" gorm:"serializer:json;type:text"`
	Images      []string        `json:"images" gorm:"serializer:json;type:text"`
	Status      PropertyStatus  `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	AgentID     uuid.UUID       `json:"-" gorm:"type:char(36);index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"-"`

	// Relations
	Agent *Agent `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

// BeforeCreate sets UUID and default status before creating the record.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = PropertyStatusAvailable
	}
	return nil
}

// PropertyFilter narrows a property listing. Nil fields impose no constraint.
type PropertyFilter struct {
	Type     *PropertyType
	City     *string
	Status   *PropertyStatus
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}
