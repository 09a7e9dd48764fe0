package service

import (
	"context"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewRequestService(repo domain.Repository, logger *zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, logger: logger}
}

func (s *RequestService) CreateRequest(ctx context.Context, requestorID int64, in models.NewItemRequest) (*models.ItemRequest, error) {
	if isBlank(in.Description) {
		return nil, validationf("description must not be blank")
	}
	if _, err := s.repo.GetUserByID(ctx, requestorID); err != nil {
		return nil, notFoundOr(err, "user", requestorID)
	}

	req := &models.ItemRequest{Description: in.Description, RequestorID: requestorID}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		s.logger.Error().Err(err).Int64("requestor_id", requestorID).Msg("create request failed")
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Items = []*models.Item{}
	return req, nil
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user", userID)
	}
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, notFoundOr(err, "request", requestID)
	}
	if err := s.attachItems(ctx, []*models.ItemRequest{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// ListOwnRequests returns the user's requests, newest first.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequest, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user", userID)
	}
	reqs, err := s.repo.GetRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own requests: %w", err)
	}
	return reqs, s.attachItems(ctx, reqs)
}

// ListOtherRequests returns a page of requests made by everyone but userID.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, page models.Page) ([]*models.ItemRequest, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user", userID)
	}
	reqs, err := s.repo.GetRequestsByOthers(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("list other requests: %w", err)
	}
	return reqs, s.attachItems(ctx, reqs)
}

// attachItems sets Items on every request from one batched lookup. Requests
// without items get an empty slice.
func (s *RequestService) attachItems(ctx context.Context, reqs []*models.ItemRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}

	byRequest, err := s.repo.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load request items: %w", err)
	}
	for _, r := range reqs {
		r.Items = byRequest[r.ID]
		if r.Items == nil {
			r.Items = []*models.Item{}
		}
	}
	return nil
}
