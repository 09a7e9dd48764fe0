package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	var body models.NewItemRequest
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	req, err := s.svc.Requests.CreateRequest(r.Context(), userID, body)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	requestID, err := pathID(r, "requestID")
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	req, err := s.svc.Requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	reqs, err := s.svc.Requests.ListOwnRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func (s *HTTPServer) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
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

	reqs, err := s.svc.Requests.ListOtherRequests(r.Context(), userID, page)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}
