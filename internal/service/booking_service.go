package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking books an interval of an item for bookerID. The booking starts
// WAITING; overlap with APPROVED or WAITING bookings is rejected atomically by
// the store.
func (s *BookingService) CreateBooking(ctx context.Context, bookerID int64, in models.NewBooking) (*models.Booking, error) {
	if in.Start == nil || in.End == nil {
		return nil, validationf("start and end are required")
	}

	booker, err := s.repo.GetUserByID(ctx, bookerID)
	if err != nil {
		return nil, notFoundOr(err, "user", bookerID)
	}
	item, err := s.repo.GetItemByID(ctx, in.ItemID)
	if err != nil {
		return nil, notFoundOr(err, "item", in.ItemID)
	}

	if !item.Available {
		return nil, validationf("item not available")
	}

	now := s.now()
	start, end := in.Start.Time, in.End.Time
	if start.Before(now) {
		return nil, validationf("start must not be in the past")
	}
	if !end.After(start) {
		return nil, validationf("end must be after start")
	}
	if !end.After(now) {
		return nil, validationf("end must be in the future")
	}
	if item.OwnerID == bookerID {
		return nil, validationf("owner cannot book own item")
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    start,
		End:      end,
	}
	if err := s.repo.CreateBookingWithLock(ctx, booking); err != nil {
		if errors.Is(err, database.ErrOverlap) {
			s.logger.Debug().Int64("item_id", item.ID).Time("start", start).Time("end", end).Msg("booking overlaps")
			return nil, validationf("item %d is already booked for the requested interval", item.ID)
		}
		s.logger.Error().Err(err).Int64("item_id", item.ID).Msg("create booking failed")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	booking.Item = &models.ItemRef{ID: item.ID, Name: item.Name, OwnerID: item.OwnerID}
	booking.Booker = &models.UserRef{ID: booker.ID, Name: booker.Name}

	s.publishEvent(events.EventBookingCreated, booking, bookerID)
	return booking, nil
}

// ApproveBooking lets the item owner move a WAITING booking to APPROVED or
// REJECTED. The transition happens once.
func (s *BookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	if booking.Item.OwnerID != ownerID {
		return nil, validationf("forbidden: user %d does not own item %d", ownerID, booking.ItemID)
	}
	if booking.Status != models.StatusWaiting {
		return nil, validationf("booking %d already decided", bookingID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.repo.DecideBooking(ctx, bookingID, status); err != nil {
		if errors.Is(err, database.ErrAlreadyDecided) {
			return nil, validationf("booking %d already decided", bookingID)
		}
		s.logger.Error().Err(err).Int64("booking_id", bookingID).Msg("decide booking failed")
		return nil, fmt.Errorf("decide booking: %w", err)
	}
	booking.Status = status

	s.publishEvent(eventType, booking, ownerID)
	return booking, nil
}

// GetBooking returns a booking to its booker or to the item owner.
func (s *BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking", bookingID)
	}
	if booking.BookerID != userID && booking.Item.OwnerID != userID {
		return nil, validationf("forbidden: user %d is neither booker nor owner of booking %d", userID, bookingID)
	}
	return booking, nil
}

// ListBookings returns a page of the bookings userID sees in role, filtered by
// state and ordered by start descending.
func (s *BookingService) ListBookings(
	ctx context.Context,
	userID int64,
	role models.BookingRole,
	rawState string,
	page models.Page,
) ([]*models.Booking, error) {
	state, ok := models.ParseBookingState(rawState)
	if !ok {
		return nil, &BookingStateError{Token: rawState}
	}
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user", userID)
	}

	scope := models.BookingScope{Role: role, UserID: userID}
	now := s.now()

	var (
		bookings []*models.Booking
		err      error
	)
	switch state {
	case models.StateAll:
		bookings, err = s.repo.ListAllBookings(ctx, scope, page)
	case models.StateCurrent:
		bookings, err = s.repo.ListCurrentBookings(ctx, scope, now, page)
	case models.StatePast:
		bookings, err = s.repo.ListPastBookings(ctx, scope, now, page)
	case models.StateFuture:
		bookings, err = s.repo.ListFutureBookings(ctx, scope, now, page)
	case models.StateWaiting, models.StateRejected, models.StateApproved:
		status, _ := state.Status()
		bookings, err = s.repo.ListBookingsByStatus(ctx, scope, status, page)
	default:
		return nil, &BookingStateError{Token: rawState}
	}
	if err != nil {
		return nil, fmt.Errorf("list %s bookings: %w", state, err)
	}
	return bookings, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, changedByID int64) {
	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		ItemID:      booking.ItemID,
		BookerID:    booking.BookerID,
		Status:      string(booking.Status),
		Start:       booking.Start,
		End:         booking.End,
		ChangedByID: changedByID,
	}
	if booking.Item != nil {
		payload.ItemName = booking.Item.Name
		payload.OwnerID = booking.Item.OwnerID
	}
	publish(s.eventBus, s.logger, eventType, payload)
}
