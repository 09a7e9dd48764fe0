package service

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewItemService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, in models.NewItem) (*models.Item, error) {
	if isBlank(in.Name) {
		return nil, validationf("name must not be blank")
	}
	if isBlank(in.Description) {
		return nil, validationf("description must not be blank")
	}
	if in.Available == nil {
		return nil, validationf("available is required")
	}

	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, notFoundOr(err, "user", ownerID)
	}
	if in.RequestID != nil {
		if _, err := s.repo.GetRequestByID(ctx, *in.RequestID); err != nil {
			return nil, notFoundOr(err, "request", *in.RequestID)
		}
	}

	item := &models.Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		s.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("create item failed")
		return nil, fmt.Errorf("create item: %w", err)
	}

	publish(s.eventBus, s.logger, events.EventItemCreated, events.ItemEventPayload{
		ItemID:    item.ID,
		OwnerID:   ownerID,
		Name:      item.Name,
		RequestID: item.RequestID,
	})
	return item, nil
}

// UpdateItem applies patch to an item of ownerID. Items of other owners are
// reported as not found.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, "item", itemID)
	}
	if item.OwnerID != ownerID {
		s.logger.Debug().Int64("item_id", itemID).Int64("user_id", ownerID).Msg("patch by non-owner")
		return nil, &NotFoundError{Entity: "item of this owner", ID: itemID}
	}

	patch.Apply(item)
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, notFoundOr(err, "item", itemID)
	}
	return item, nil
}

// GetItem returns the item with its comments. Only the owner also sees the
// last and next booking.
func (s *ItemService) GetItem(ctx context.Context, viewerID, itemID int64) (*models.ItemView, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err, "item", itemID)
	}

	views, err := s.decorate(ctx, []*models.Item{item}, item.OwnerID == viewerID)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// ListOwnerItems returns a page of the owner's items ordered by id, each with
// last and next booking and comments.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64, page models.Page) ([]*models.ItemView, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, notFoundOr(err, "user", ownerID)
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("list owner items: %w", err)
	}
	return s.decorate(ctx, items, true)
}

// SearchItems finds available items by name or description. Blank text finds
// nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, page models.Page) ([]*models.Item, error) {
	if isBlank(text) {
		return []*models.Item{}, nil
	}
	items, err := s.repo.SearchItems(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

// AddComment stores a comment from a user who has finished an APPROVED
// booking of the item.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, in models.NewComment) (*models.Comment, error) {
	if isBlank(in.Text) {
		return nil, validationf("comment text must not be blank")
	}

	author, err := s.repo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, notFoundOr(err, "user", authorID)
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, notFoundOr(err, "item", itemID)
	}

	completed, err := s.repo.HasCompletedBooking(ctx, itemID, authorID, s.now())
	if err != nil {
		return nil, fmt.Errorf("check completed booking: %w", err)
	}
	if !completed {
		return nil, validationf("user %d has no completed booking of item %d", authorID, itemID)
	}

	comment := &models.Comment{Text: in.Text, ItemID: itemID, AuthorID: authorID}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		s.logger.Error().Err(err).Int64("item_id", itemID).Msg("create comment failed")
		return nil, fmt.Errorf("create comment: %w", err)
	}
	comment.AuthorName = author.Name

	publish(s.eventBus, s.logger, events.EventCommentAdded, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  authorID,
	})
	return comment, nil
}

// decorate attaches comments and, when withBookings is set, last and next
// bookings. Side data for all items is loaded with one query per kind.
func (s *ItemService) decorate(ctx context.Context, items []*models.Item, withBookings bool) ([]*models.ItemView, error) {
	views := make([]*models.ItemView, 0, len(items))
	if len(items) == 0 {
		return views, nil
	}

	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}

	comments, err := s.repo.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	var last, next map[int64]*models.BookingShort
	if withBookings {
		now := s.now()
		if last, err = s.repo.GetLastBookings(ctx, ids, now); err != nil {
			return nil, fmt.Errorf("load last bookings: %w", err)
		}
		if next, err = s.repo.GetNextBookings(ctx, ids, now); err != nil {
			return nil, fmt.Errorf("load next bookings: %w", err)
		}
	}

	for _, item := range items {
		view := &models.ItemView{
			Item:        *item,
			LastBooking: last[item.ID],
			NextBooking: next[item.ID],
			Comments:    comments[item.ID],
		}
		if view.Comments == nil {
			view.Comments = []*models.Comment{}
		}
		views = append(views, view)
	}
	return views, nil
}
