package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	var body models.NewItem
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	item, err := s.svc.Items.CreateItem(r.Context(), userID, body)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	var patch models.ItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	item, err := s.svc.Items.UpdateItem(r.Context(), userID, itemID, patch)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleGetItem works without the user header; such viewers never see bookings.
func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	viewerID, err := s.optionalCallerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	view, err := s.svc.Items.GetItem(r.Context(), viewerID, itemID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *HTTPServer) handleListOwnerItems(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	page, err := s.page(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	views, err := s.svc.Items.ListOwnerItems(r.Context(), userID, page)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	items, err := s.svc.Items.SearchItems(r.Context(), r.URL.Query().Get("text"), page)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	itemID, err := pathID(r, "itemID")
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	var body models.NewComment
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	comment, err := s.svc.Items.AddComment(r.Context(), userID, itemID, body)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
