package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
)

// callerID reads the trusted caller id header. The header is required.
func (s *HTTPServer) callerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(s.cfg.UserHeader))
	if raw == "" {
		return 0, badRequest("header %s is required", s.cfg.UserHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("header %s must be a positive integer", s.cfg.UserHeader)
	}
	return id, nil
}

// optionalCallerID returns 0 when the header is absent.
func (s *HTTPServer) optionalCallerID(r *http.Request) (int64, error) {
	if strings.TrimSpace(r.Header.Get(s.cfg.UserHeader)) == "" {
		return 0, nil
	}
	return s.callerID(r)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// page parses from/size. from must be >= 0, size in (0, max_size].
func (s *HTTPServer) page(r *http.Request) (models.Page, error) {
	q := r.URL.Query()
	p := models.Page{From: 0, Size: s.pagination.DefaultSize}

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil || from < 0 {
			return p, badRequest("from must be a non-negative integer")
		}
		p.From = from
	}
	if raw := strings.TrimSpace(q.Get("size")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return p, badRequest("size must be a positive integer")
		}
		if size > s.pagination.MaxSize {
			return p, badRequest("size must not exceed %d", s.pagination.MaxSize)
		}
		p.Size = size
	}
	return p, nil
}

func stateParam(r *http.Request) string {
	if raw := strings.TrimSpace(r.URL.Query().Get("state")); raw != "" {
		return raw
	}
	return string(models.StateAll)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}
