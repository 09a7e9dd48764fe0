package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) (map[int64][]*models.Item, error)
}

type BookingRepository interface {
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error
	ListAllBookings(ctx context.Context, scope models.BookingScope, page models.Page) ([]*models.Booking, error)
	ListCurrentBookings(ctx context.Context, scope models.BookingScope, now time.Time, page models.Page) ([]*models.Booking, error)
	ListPastBookings(ctx context.Context, scope models.BookingScope, now time.Time, page models.Page) ([]*models.Booking, error)
	ListFutureBookings(ctx context.Context, scope models.BookingScope, now time.Time, page models.Page) ([]*models.Booking, error)
	ListBookingsByStatus(ctx context.Context, scope models.BookingScope, status models.BookingStatus, page models.Page) ([]*models.Booking, error)
	GetLastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*models.BookingShort, error)
	GetNextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*models.BookingShort, error)
	HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)
}

type RequestRepository interface {
	CreateRequest(ctx context.Context, req *models.ItemRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequestor(ctx context.Context, requestorID int64) ([]*models.ItemRequest, error)
	GetRequestsByOthers(ctx context.Context, excludeID int64, page models.Page) ([]*models.ItemRequest, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) (map[int64][]*models.Comment, error)
}

// Repository is the full store surface; *database.DB implements it.
type Repository interface {
	UserRepository
	ItemRepository
	BookingRepository
	RequestRepository
	CommentRepository
	Ping(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// QuotaLimiter counts requests per key in a fixed window shared by all instances.
type QuotaLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, bookerID int64, in models.NewBooking) (*models.Booking, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64, approved bool) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*models.Booking, error)
	ListBookings(ctx context.Context, userID int64, role models.BookingRole, state string, page models.Page) ([]*models.Booking, error)
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, in models.NewItem) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error)
	GetItem(ctx context.Context, viewerID, itemID int64) (*models.ItemView, error)
	ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemView, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, in models.NewComment) (*models.Comment, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, requestorID int64, in models.NewItemRequest) (*models.ItemRequest, error)
	GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error)
	ListOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error)
	ListOtherRequests(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error)
}

type UserService interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
