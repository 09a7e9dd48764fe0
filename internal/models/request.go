package models

import "time"

type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequestorID int64     `json:"requestorId"`
	Created     time.Time `json:"created"`
	Items       []*Item   `json:"items"`
}

type NewItemRequest struct {
	Description string `json:"description"`
}
