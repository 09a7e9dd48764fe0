package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/export"
	"shareit/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	var body models.NewBooking
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	booking, err := s.svc.Bookings.CreateBooking(r.Context(), userID, body)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleApproveBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("approved"))
	if raw == "" {
		writeServiceError(w, s.logger, badRequest("approved parameter is required"))
		return
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		writeServiceError(w, s.logger, badRequest("approved must be true or false"))
		return
	}

	booking, err := s.svc.Bookings.ApproveBooking(r.Context(), userID, bookingID, approved)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	bookingID, err := pathID(r, "bookingID")
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	booking, err := s.svc.Bookings.GetBooking(r.Context(), userID, bookingID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleBooker)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, models.RoleOwner)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, role models.BookingRole) {
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

	bookings, err := s.svc.Bookings.ListBookings(r.Context(), userID, role, stateParam(r), page)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleExportOwnerBookings отдает xlsx со всеми бронированиями владельца
// для выбранного state, без пагинации (до exports.max_rows строк).
func (s *HTTPServer) handleExportOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := s.callerID(r)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	raw := stateParam(r)
	bookings, err := s.svc.Bookings.ListBookings(r.Context(), userID, models.RoleOwner, raw,
		models.Page{From: 0, Size: s.exports.MaxRows})
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	state, _ := models.ParseBookingState(raw)

	now := s.now()
	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, bookings, state, now); err != nil {
		writeServiceError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(userID, state, now)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
