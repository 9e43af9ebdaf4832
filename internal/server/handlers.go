// internal/server/handlers.go
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apperrors "scholarship-matcher/internal/common/errors"
	"scholarship-matcher/internal/common/metrics"
	"scholarship-matcher/internal/common/observability"
	"scholarship-matcher/internal/matching"
	"scholarship-matcher/internal/models"

	"go.opentelemetry.io/otel/attribute"
)

const msgProfileRequired = "Student profile data is required."

// ViewRequest re-derives the displayed list from already-scored results.
type ViewRequest struct {
	Scholarships []models.ScoredScholarship `json:"scholarships"`
	Filters      ViewFilters                `json:"filters"`
	SortBy       string                     `json:"sortBy,omitempty"`
	Reset        bool                       `json:"reset,omitempty"`
}

type ViewFilters struct {
	Amount   string `json:"amount,omitempty"`
	Deadline string `json:"deadline,omitempty"`
	Type     string `json:"type,omitempty"`
}

type ViewResponse struct {
	Cards []matching.Card     `json:"cards"`
	Count int                 `json:"count"`
	View  matching.ViewConfig `json:"view"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	page, err := s.runMatch(r, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, page)
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	offset, err := parseOffset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, err := s.runMatch(r, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePage(w, page)
}

// writePage sends the page as a bare JSON array; paging state travels in headers.
func (s *Server) writePage(w http.ResponseWriter, page *matching.Page) {
	h := w.Header()
	h.Set(headerTotalCount, strconv.Itoa(page.Total))
	h.Set(headerNextOffset, strconv.Itoa(page.NextOffset))
	h.Set(headerHasMore, strconv.FormatBool(page.HasMore))
	s.jsonResponse(w, http.StatusOK, page.Scholarships)
}

func (s *Server) runMatch(r *http.Request, offset int) (*matching.Page, error) {
	profile, err := s.decodeProfile(r)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(r.Context(), "http.match",
		attribute.Int("offset", offset),
		attribute.String("source", s.source.Name()),
	)
	start := time.Now()
	page, err := matching.MatchFromSource(ctx, s.source, profile, matching.Options{
		Threshold: s.matching.Threshold,
		PageSize:  s.matching.PageSize,
		Offset:    offset,
	})
	observability.EndSpan(span, err)
	if err != nil {
		s.obs.RecordMatch(ctx, r.URL.Path, "error")
		return nil, err
	}

	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	scores := make([]int, len(page.Scholarships))
	for i, sc := range page.Scholarships {
		scores[i] = sc.MatchScore
	}
	metrics.ObserveScores(scores)
	s.obs.RecordMatch(ctx, r.URL.Path, "ok")
	return page, nil
}

func (s *Server) decodeProfile(r *http.Request) (*models.StudentProfile, error) {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("read body: %v", err))
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, apperrors.NewInvalidInputError(msgProfileRequired)
	}

	if res := s.validator.ValidateProfile(body); !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Error())
	}

	var profile models.StudentProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	return &profile, nil
}

func parseOffset(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, apperrors.NewInvalidInputError("offset query parameter is required")
	}
	offset, err := strconv.Atoi(raw)
	if err != nil || offset < 0 {
		return 0, apperrors.NewInvalidInputError(fmt.Sprintf("offset must be a non-negative integer, got %q", raw))
	}
	return offset, nil
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, apperrors.NewInvalidInputError(fmt.Sprintf("decode view request: %v", err)))
		return
	}

	view := matching.ViewConfig{
		Amount:   req.Filters.Amount,
		Deadline: req.Filters.Deadline,
		Type:     req.Filters.Type,
		SortBy:   req.SortBy,
	}
	if req.Reset {
		view = matching.ResetView()
	}
	if view.SortBy == "" {
		view.SortBy = matching.SortRelevance
	}

	now := s.now()
	items, err := matching.ApplyView(req.Scholarships, view, now)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ViewResponse{
		Cards: matching.Cards(items, now),
		Count: len(items),
		View:  view,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.source.Ping(r.Context()); err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{
			"source": s.source.Name(),
			"error":  err.Error(),
		})
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"source": s.source.Name(),
		})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "ready",
		"source": s.source.Name(),
		"time":   s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleTestCORS(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "CORS is working!"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := apperrors.Classify(err)
	status := HTTPStatus(stdErr.Code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", map[string]interface{}{
			"path":    r.URL.Path,
			"code":    string(stdErr.Code),
			"details": stdErr.Details,
		})
	}
	s.jsonResponse(w, status, errorBody{
		Error:     errorMessage(stdErr, status),
		Code:      string(stdErr.Code),
		RequestID: RequestID(r.Context()),
	})
}
