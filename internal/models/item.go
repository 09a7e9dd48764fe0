package models

import "time"

type Item struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Available   bool      `json:"available" yaml:"available"`
	OwnerID     int64     `json:"ownerId" yaml:"owner_id"`
	RequestID   *int64    `json:"requestId,omitempty" yaml:"request_id"`
	CreatedAt   time.Time `json:"-" yaml:"-"`
	UpdatedAt   time.Time `json:"-" yaml:"-"`
}

// ItemView is an item decorated with bookings and comments.
type ItemView struct {
	Item
	LastBooking *BookingShort `json:"lastBooking"`
	NextBooking *BookingShort `json:"nextBooking"`
	Comments    []*Comment    `json:"comments"`
}

type NewItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// ItemPatch carries the fields of a partial item update; nil means unchanged.
type ItemPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// Apply merges the patch into item.
func (p ItemPatch) Apply(item *Item) {
	MergeString(&item.Name, p.Name)
	MergeString(&item.Description, p.Description)
	if p.Available != nil {
		item.Available = *p.Available
	}
}
