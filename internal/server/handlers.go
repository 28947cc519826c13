package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"newsblog/internal/core"
	"newsblog/internal/llm"
	"newsblog/internal/logger"
	"newsblog/internal/news"
	"newsblog/internal/pipeline"
	"newsblog/internal/render"
)

const maxBodyBytes = 1 << 20

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	State string `json:"state,omitempty"`
}

// NewsResponse lists ranked candidates for a query.
type NewsResponse struct {
	Query   string                 `json:"query"`
	Count   int                    `json:"count"`
	Results []core.RankedCandidate `json:"results"`
}

// GenerateRequest is the body of POST /api/posts.
type GenerateRequest struct {
	Keyword      string `json:"keyword"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	PerKeyword   int    `json:"perKeyword"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"search": "ok",
		"images": "disabled",
	}
	if s.options.ImagesEnabled {
		checks["images"] = "ok"
	}
	if s.options.Model != "" {
		checks["model"] = s.options.Model
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Uptime: time.Since(s.startedAt).Round(time.Second).String(),
		Checks: checks,
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := news.Query{
		Keyword:      r.URL.Query().Get("q"),
		CategoryID:   r.URL.Query().Get("category_id"),
		CategoryName: r.URL.Query().Get("category"),
	}

	items, used, err := news.Collect(r.Context(), s.pipeline.Searcher(), q)
	if err != nil {
		s.respondError(w, statusFor(err), err.Error(), "")
		return
	}

	ranked := news.Rank(items)
	if ranked == nil {
		ranked = []core.RankedCandidate{}
	}
	s.respondJSON(w, http.StatusOK, NewsResponse{Query: used, Count: len(ranked), Results: ranked})
}

func (s *Server) handleGeneratePost(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := decodeBody(r, &body); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	if !s.generating.TryLock() {
		s.respondError(w, http.StatusConflict, "a blog post is already being generated; try again when it finishes", "")
		return
	}
	defer s.generating.Unlock()

	req := pipeline.Request{
		Query: news.Query{
			Keyword:      body.Keyword,
			CategoryID:   body.CategoryID,
			CategoryName: body.CategoryName,
		},
		PerKeyword: body.PerKeyword,
	}

	res := <-s.pipeline.Start(r.Context(), req, s.options.Timeout, func(p pipeline.Progress) {
		logger.Debug("Generation progress", "state", p.State.String(), "percent", p.Percent,
			"request_id", middleware.GetReqID(r.Context()))
	})
	if res.Err != nil {
		state := ""
		var f *pipeline.Failure
		if errors.As(res.Err, &f) {
			state = f.State.String()
		}
		s.respondError(w, statusFor(res.Err), res.Err.Error(), state)
		return
	}

	s.respondJSON(w, http.StatusCreated, res.Record)
}

func (s *Server) handleRenderPost(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	var rec core.BlogRecord
	if err := decodeBody(r, &rec); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid blog record: "+err.Error(), "")
		return
	}
	if rec.Title == "" && rec.Content == "" {
		s.respondError(w, http.StatusBadRequest, "blog record has neither title nor content", "")
		return
	}

	data, err := render.Render(rec, format)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write rendered post", err)
	}
}

// statusFor maps pipeline and search failures to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, news.ErrBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, news.ErrAuth), errors.Is(err, news.ErrMissingCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, news.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, pipeline.ErrNoNews):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, news.ErrTransport), errors.Is(err, llm.ErrGenerationFailed):
		return http.StatusBadGateway
	case errors.Is(err, llm.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, state string) {
	if status >= http.StatusInternalServerError {
		logger.Warn("API request failed", "status", status, "error", message, "state", state)
	}
	s.respondJSON(w, status, ErrorResponse{Error: message, State: state})
}
