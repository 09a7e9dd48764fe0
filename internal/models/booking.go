package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// BookingState selects which bookings a listing returns.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
	StateApproved BookingState = "APPROVED"
)

var bookingStates = []BookingState{
	StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected, StateApproved,
}

// ParseBookingState matches raw case-insensitively against the known states.
func ParseBookingState(raw string) (BookingState, bool) {
	candidate := BookingState(strings.ToUpper(strings.TrimSpace(raw)))
	for _, s := range bookingStates {
		if s == candidate {
			return s, true
		}
	}
	return "", false
}

// Status returns the booking status a status-valued state filters on.
func (s BookingState) Status() (BookingStatus, bool) {
	switch s {
	case StateWaiting:
		return StatusWaiting, true
	case StateRejected:
		return StatusRejected, true
	case StateApproved:
		return StatusApproved, true
	default:
		return "", false
	}
}

type BookingRole string

const (
	RoleBooker BookingRole = "BOOKER"
	RoleOwner  BookingRole = "OWNER"
)

// BookingScope restricts a listing to the bookings a principal sees in a role.
type BookingScope struct {
	Role   BookingRole
	UserID int64
}

type Booking struct {
	ID        int64         `json:"id"`
	ItemID    int64         `json:"itemId"`
	BookerID  int64         `json:"bookerId"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    BookingStatus `json:"status"`
	Item      *ItemRef      `json:"item,omitempty"`
	Booker    *UserRef      `json:"booker,omitempty"`
	CreatedAt time.Time     `json:"-"`
	UpdatedAt time.Time     `json:"-"`
}

// BookingShort is the booking summary attached to an item view.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type ItemRef struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"-"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewBooking is the booker's request for an interval on an item.
type NewBooking struct {
	ItemID int64     `json:"itemId"`
	Start  *DateTime `json:"start"`
	End    *DateTime `json:"end"`
}
