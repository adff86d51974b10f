package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"luxestate/internal/db"
	"luxestate/internal/model"
)

type RepositorySuite struct {
	suite.Suite
	db         *gorm.DB
	users      UserRepository
	properties PropertyRepository
	bookings   BookingRepository
	tx         TxManager
	agent      *model.User
	ctx        context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := db.Open("sqlite", dsn)
	s.Require().NoError(err)
	s.Require().NoError(db.Migrate(gdb, false))

	s.db = gdb
	s.ctx = context.Background()
	s.users = NewUserRepository(gdb)
	s.properties = NewPropertyRepository(gdb)
	s.bookings = NewBookingRepository(gdb)
	s.tx = NewTxManager(gdb)

	s.agent = &model.User{Name: "Agent Smith", Email: "agent@example.com", PasswordHash: "x", Role: model.RoleAgent}
	s.Require().NoError(s.users.Create(s.ctx, s.agent))
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(db.Close(s.db))
}

func (s *RepositorySuite) newProperty(title string, typ model.PropertyType, city string, price int64) *model.Property {
	p := &model.Property{
		Title:       title,
		Description: title + " description",
		Type:        typ,
		Price:       decimal.NewFromInt(price),
		Location:    model.Location{City: city},
		Amenities:   []string{"pool", "wifi"},
		AgentID:     s.agent.ID,
	}
	s.Require().NoError(s.properties.Create(s.ctx, p))
	return p
}

func (s *RepositorySuite) newBooking(property *model.Property, userID uuid.UUID, startDay, endDay int) *model.Booking {
	b := &model.Booking{
		PropertyID: property.ID,
		UserID:     userID,
		StartDate:  time.Date(2026, 8, startDay, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 8, endDay, 0, 0, 0, 0, time.UTC),
		TotalPrice: decimal.NewFromInt(900),
	}
	s.Require().NoError(s.bookings.Create(s.ctx, b))
	return b
}

func (s *RepositorySuite) TestUser_FindByEmail() {
	found, err := s.users.FindByEmail(s.ctx, "agent@example.com")
	s.Require().NoError(err)
	s.Equal(s.agent.ID, found.ID)
	s.Equal(model.RoleAgent, found.Role)

	_, err = s.users.FindByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *RepositorySuite) TestUser_DuplicateEmailRejected() {
	dup := &model.User{Name: "Other", Email: "agent@example.com", PasswordHash: "y", Role: model.RoleUser}
	s.Error(s.users.Create(s.ctx, dup))
}

func (s *RepositorySuite) TestProperty_CreateDefaultsAndJoin() {
	p := s.newProperty("Sea View", model.PropertyTypeVilla, "Lisbon", 300)

	found, err := s.properties.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(model.PropertyStatusAvailable, found.Status)
	s.Equal([]string{"pool", "wifi"}, found.Amenities)
	s.True(decimal.NewFromInt(300).Equal(found.Price))
	s.Require().NotNil(found.Agent)
	s.Equal("Agent Smith", found.Agent.Name)
	s.Equal("agent@example.com", found.Agent.Email)
}

func (s *RepositorySuite) TestProperty_ListFilters() {
	s.newProperty("Cheap Studio", model.PropertyTypeStudio, "Porto", 50)
	s.newProperty("Mid Condo", model.PropertyTypeCondo, "New York", 100)
	s.newProperty("Upper Condo", model.PropertyTypeCondo, "new york city", 500)
	villa := s.newProperty("Grand Villa", model.PropertyTypeVilla, "Lisbon", 900)
	s.Require().NoError(s.properties.SetStatus(s.ctx, villa.ID, model.PropertyStatusBooked))

	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(500)
	condo := model.PropertyTypeCondo
	city := "YORK"
	booked := model.PropertyStatusBooked

	titles := func(filter model.PropertyFilter) []string {
		list, err := s.properties.List(s.ctx, filter)
		s.Require().NoError(err)
		out := make([]string, 0, len(list))
		for _, p := range list {
			s.NotNil(p.Agent)
			out = append(out, p.Title)
		}
		return out
	}

	s.Len(titles(model.PropertyFilter{}), 4)
	s.ElementsMatch([]string{"Mid Condo", "Upper Condo"}, titles(model.PropertyFilter{MinPrice: &min, MaxPrice: &max}))
	s.ElementsMatch([]string{"Mid Condo", "Upper Condo", "Grand Villa"}, titles(model.PropertyFilter{MinPrice: &min}))
	s.ElementsMatch([]string{"Cheap Studio", "Mid Condo", "Upper Condo"}, titles(model.PropertyFilter{MaxPrice: &max}))
	s.ElementsMatch([]string{"Mid Condo", "Upper Condo"}, titles(model.PropertyFilter{Type: &condo}))
	s.ElementsMatch([]string{"Mid Condo", "Upper Condo"}, titles(model.PropertyFilter{City: &city}))
	s.ElementsMatch([]string{"Grand Villa"}, titles(model.PropertyFilter{Status: &booked}))
	s.Empty(titles(model.PropertyFilter{Type: &condo, Status: &booked}))
}

func (s *RepositorySuite) TestProperty_CityFilterMatchesWildcardsLiterally() {
	s.newProperty("Lisbon Flat", model.PropertyTypeApartment, "Lisbon", 100)
	s.newProperty("Odd Listing", model.PropertyTypeApartment, "Vila_100%!", 100)

	titles := func(city string) []string {
		list, err := s.properties.List(s.ctx, model.PropertyFilter{City: &city})
		s.Require().NoError(err)
		out := make([]string, 0, len(list))
		for _, p := range list {
			out = append(out, p.Title)
		}
		return out
	}

	s.Equal([]string{"Odd Listing"}, titles("%"))
	s.Equal([]string{"Odd Listing"}, titles("_"))
	s.Equal([]string{"Odd Listing"}, titles("!"))
	s.Equal([]string{"Odd Listing"}, titles("a_100%!"))
	s.Empty(titles("l_sbon"))
	s.Empty(titles("lis%on"))
	s.Equal([]string{"Lisbon Flat"}, titles("isb"))
}

func (s *RepositorySuite) TestProperty_DeleteAndSetStatusNotFound() {
	p := s.newProperty("Loft", model.PropertyTypeApartment, "Berlin", 200)

	s.Require().NoError(s.properties.Delete(s.ctx, p.ID))
	s.ErrorIs(s.properties.Delete(s.ctx, p.ID), gorm.ErrRecordNotFound)
	s.ErrorIs(s.properties.SetStatus(s.ctx, p.ID, model.PropertyStatusBooked), gorm.ErrRecordNotFound)
}

func (s *RepositorySuite) TestProperty_SetStatusUnchangedValue() {
	p := s.newProperty("Loft", model.PropertyTypeApartment, "Berlin", 200)

	s.NoError(s.properties.SetStatus(s.ctx, p.ID, model.PropertyStatusAvailable))
}

func (s *RepositorySuite) TestBooking_ListForUserNewestFirst() {
	p := s.newProperty("Loft", model.PropertyTypeApartment, "Berlin", 200)
	userID := uuid.New()
	first := s.newBooking(p, userID, 1, 3)
	time.Sleep(5 * time.Millisecond)
	second := s.newBooking(p, userID, 5, 7)
	s.newBooking(p, uuid.New(), 9, 10)

	list, err := s.bookings.ListForUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(first.ID, list[1].ID)
	s.Require().NotNil(list[0].Property)
	s.Equal("Loft", list[0].Property.Title)
	s.Equal(1, list[0].Guests)
	s.Equal(model.BookingStatusPending, list[0].Status)
}

func (s *RepositorySuite) TestBooking_ListForUserEmptyIsNotNil() {
	list, err := s.bookings.ListForUser(s.ctx, uuid.New())
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}

func (s *RepositorySuite) TestBooking_OrphanedAfterPropertyDelete() {
	p := s.newProperty("Loft", model.PropertyTypeApartment, "Berlin", 200)
	b := s.newBooking(p, uuid.New(), 1, 3)

	s.Require().NoError(s.properties.Delete(s.ctx, p.ID))

	found, err := s.bookings.FindByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Nil(found.Property)
}

func (s *RepositorySuite) TestBooking_CountOverlapAndActiveIDs() {
	p := s.newProperty("Loft", model.PropertyTypeApartment, "Berlin", 200)
	other := s.newProperty("Flat", model.PropertyTypeApartment, "Berlin", 250)
	s.newBooking(p, uuid.New(), 10, 15)
	cancelled := &model.Booking{
		PropertyID: other.ID,
		UserID:     uuid.New(),
		StartDate:  time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		TotalPrice: decimal.NewFromInt(10),
		Status:     model.BookingStatusCancelled,
	}
	s.Require().NoError(s.bookings.Create(s.ctx, cancelled))

	count, err := s.bookings.CountActiveForProperty(s.ctx, p.ID)
	s.Require().NoError(err)
	s.EqualValues(1, count)
	count, err = s.bookings.CountActiveForProperty(s.ctx, other.ID)
	s.Require().NoError(err)
	s.EqualValues(0, count)

	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }
	hits, err := s.bookings.FindOverlapping(s.ctx, p.ID, day(14), day(20))
	s.Require().NoError(err)
	s.Len(hits, 1)
	hits, err = s.bookings.FindOverlapping(s.ctx, p.ID, day(15), day(20))
	s.Require().NoError(err)
	s.Empty(hits)
	hits, err = s.bookings.FindOverlapping(s.ctx, other.ID, day(11), day(12))
	s.Require().NoError(err)
	s.Empty(hits)

	ids, err := s.bookings.ActivePropertyIDs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{p.ID}, ids)
}

func (s *RepositorySuite) TestTransaction_RollsBackBothWrites() {
	p := s.newProperty("Loft", model.PropertyTypeApartment, "Berlin", 200)
	boom := fmt.Errorf("boom")

	err := s.tx.WithTransaction(s.ctx, func(ctx context.Context, repos Repositories) error {
		b := &model.Booking{PropertyID: p.ID, UserID: uuid.New(), StartDate: time.Now(), EndDate: time.Now().Add(time.Hour), TotalPrice: decimal.NewFromInt(1)}
		if err := repos.Bookings.Create(ctx, b); err != nil {
			return err
		}
		if err := repos.Properties.SetStatus(ctx, p.ID, model.PropertyStatusBooked); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	found, err := s.properties.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(model.PropertyStatusAvailable, found.Status)
	count, err := s.bookings.CountActiveForProperty(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *RepositorySuite) TestProperty_ListByStatus() {
	a := s.newProperty("A", model.PropertyTypeHouse, "X", 1)
	b := s.newProperty("B", model.PropertyTypeHouse, "X", 1)
	c := s.newProperty("C", model.PropertyTypeHouse, "X", 1)
	s.Require().NoError(s.properties.SetStatus(s.ctx, b.ID, model.PropertyStatusBooked))
	s.Require().NoError(s.properties.SetStatus(s.ctx, c.ID, model.PropertyStatusSold))

	list, err := s.properties.ListByStatus(s.ctx, model.PropertyStatusAvailable, model.PropertyStatusBooked)
	s.Require().NoError(err)
	ids := []uuid.UUID{}
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	s.ElementsMatch([]uuid.UUID{a.ID, b.ID}, ids)
}
