package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerations(t *testing.T) {
	assert.True(t, PropertyTypeTownhouse.Valid())
	assert.False(t, PropertyType("castle").Valid())
	assert.True(t, PropertyStatusSold.Valid())
	assert.False(t, PropertyStatus("reserved").Valid())
	assert.True(t, RoleAgent.Valid())
	assert.False(t, Role("owner").Valid())
}

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.True(t, BookingStatusCompleted.Active())
	assert.False(t, BookingStatusCancelled.Active())
}

func TestBooking_Overlaps(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 7, d, 0, 0, 0, 0, time.UTC) }
	b := &Booking{StartDate: day(10), EndDate: day(15)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"inside", day(11), day(12), true},
		{"straddles start", day(8), day(11), true},
		{"straddles end", day(14), day(20), true},
		{"covers", day(1), day(30), true},
		{"ends at start", day(5), day(10), false},
		{"starts at end", day(15), day(18), false},
		{"disjoint", day(20), day(25), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Overlaps(tt.start, tt.end))
		})
	}
}

func TestMoneyEncodesAsJSONNumber(t *testing.T) {
	property := Property{Price: decimal.RequireFromString("320.50")}
	booking := Booking{TotalPrice: decimal.NewFromInt(1280), Property: &property}

	data, err := json.Marshal(booking)
	require.NoError(t, err)

	var raw struct {
		TotalPrice json.RawMessage `json:"totalPrice"`
		Property   struct {
			Price json.RawMessage `json:"price"`
		} `json:"property"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1280", string(raw.TotalPrice))
	assert.Equal(t, "320.5", string(raw.Property.Price))
}
