package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(et string, p interface{}) error { return m.Called(et, p).Error(0) }

type fixture struct {
	db     *database.DB
	bus    *mockEventBus
	logger zerolog.Logger
	now    time.Time
	seq    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := new(mockEventBus)
	bus.On("PublishJSON", mock.Anything, mock.Anything).Return(nil).Maybe()

	return &fixture{
		db:     db,
		bus:    bus,
		logger: logger,
		now:    time.Now().UTC().Truncate(time.Second),
	}
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) bookingService() *BookingService {
	s := NewBookingService(f.db, f.bus, &f.logger)
	s.now = f.clock
	return s
}

func (f *fixture) itemService() *ItemService {
	s := NewItemService(f.db, f.bus, &f.logger)
	s.now = f.clock
	return s
}

func (f *fixture) user(t *testing.T, name string) *models.User {
	t.Helper()
	f.seq++
	u := &models.User{Name: name, Email: fmt.Sprintf("user%d@example.com", f.seq)}
	require.NoError(t, f.db.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	it := &models.Item{Name: name, Description: name + " description", Available: available, OwnerID: ownerID}
	require.NoError(t, f.db.CreateItem(context.Background(), it))
	return it
}

// booking stores a booking directly, bypassing the start-in-future rule, and
// optionally decides it.
func (f *fixture) booking(t *testing.T, itemID, bookerID int64, start, end time.Time, status models.BookingStatus) *models.Booking {
	t.Helper()
	ctx := context.Background()
	b := &models.Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end}
	require.NoError(t, f.db.CreateBookingWithLock(ctx, b))
	if status != models.StatusWaiting {
		require.NoError(t, f.db.DecideBooking(ctx, b.ID, status))
		b.Status = status
	}
	return b
}

func dt(t time.Time) *models.DateTime {
	return &models.DateTime{Time: t}
}
