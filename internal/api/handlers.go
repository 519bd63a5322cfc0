package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/queue"
	"github.com/dgnsrekt/murmure-go/internal/render"
)

// AnalyzeRequest represents the request body for /v1/analyze.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// NarrateRequest represents the request body for /v1/narrate.
type NarrateRequest struct {
	Text      string `json:"text"`
	Voice     string `json:"voice,omitempty"`
	Engine    string `json:"engine,omitempty"`
	Interrupt bool   `json:"interrupt,omitempty"`
	TTLMS     int    `json:"ttl_ms,omitempty"`
	DedupeKey string `json:"dedupe_key,omitempty"`
}

// NarrateResponse represents the response body for /v1/narrate.
type NarrateResponse struct {
	JobID     string `json:"job_id"`
	Message   string `json:"message"`
	StatusURL string `json:"status_url"`
}

// NarrationResponse is the state of a narration job. Narration, Clips and
// Skipped are set once the job is done.
type NarrationResponse struct {
	queue.Snapshot
	Narration *pipeline.Result `json:"narration,omitempty"`
	Engine    string           `json:"engine,omitempty"`
	Clips     int              `json:"clips"`
	Skipped   []int            `json:"skipped,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the response body for /v1/healthz.
type HealthResponse struct {
	Status string `json:"status"`
	Queued int    `json:"queued"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleHealthz handles GET /v1/healthz requests.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if s.queue != nil {
		resp.Queued = s.queue.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

// validateText checks the text shared by analyze and narrate requests and
// returns a client error message, or "".
func (s *Server) validateText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "text is required"
	}
	if s.cfg.MaxTextLength > 0 && len(text) > s.cfg.MaxTextLength {
		s.logger.Warn("text exceeds max length", "length", len(text), "max", s.cfg.MaxTextLength)
		return "text exceeds maximum length"
	}
	return ""
}

// handleAnalyze handles POST /v1/analyze requests.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not available")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("failed to decode analyze request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := s.validateText(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := s.pipeline.Run(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// handleNarrate handles POST /v1/narrate requests.
func (s *Server) handleNarrate(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "narration is not available")
		return
	}

	var req NarrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("failed to decode narrate request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := s.validateText(req.Text); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.TTLMS < 0 {
		writeError(w, http.StatusBadRequest, "ttl_ms must be non-negative")
		return
	}

	voice := req.Voice
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}

	var ttl time.Duration
	if req.TTLMS > 0 {
		ttl = time.Duration(req.TTLMS) * time.Millisecond
	} else if s.cfg.DefaultTTL > 0 {
		ttl = s.cfg.DefaultTTL
	}

	// Interrupt cancels the running job and clears the queue first.
	if req.Interrupt {
		s.queue.Interrupt()
	}

	job := queue.NewNarrationJob(req.Text, voice, req.Interrupt, ttl, req.DedupeKey)
	job.Engine = req.Engine

	if err := s.queue.Enqueue(job); err != nil {
		switch {
		case errors.Is(err, queue.ErrQueueFull):
			writeError(w, http.StatusServiceUnavailable, "queue is full")
		case errors.Is(err, queue.ErrDuplicateJob):
			writeError(w, http.StatusConflict, "duplicate job")
		default:
			s.logger.Error("failed to enqueue job", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to enqueue job")
		}
		return
	}

	s.logger.Info("narration request enqueued",
		"job_id", job.ID,
		"text_length", len(req.Text),
		"voice", voice,
		"engine", req.Engine,
		"interrupt", req.Interrupt,
		"ttl_ms", req.TTLMS,
		"dedupe_key", req.DedupeKey,
	)

	writeJSON(w, http.StatusAccepted, NarrateResponse{
		JobID:     job.ID,
		Message:   "job enqueued",
		StatusURL: "/v1/narrations/" + job.ID,
	})
}

// lookup resolves the {id} path value, writing a 404 when it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (queue.Snapshot, bool) {
	if s.queue == nil {
		writeError(w, http.StatusNotFound, "narration not found")
		return queue.Snapshot{}, false
	}
	snap, ok := s.queue.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "narration not found")
	}
	return snap, ok
}

// handleNarration handles GET /v1/narrations/{id} requests.
func (s *Server) handleNarration(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.lookup(w, r)
	if !ok {
		return
	}

	resp := NarrationResponse{Snapshot: snap}
	if res, ok := snap.Result.(*render.Result); ok && res != nil {
		resp.Narration = res.Narration
		resp.Engine = res.Engine
		resp.Clips = len(res.Clips)
		resp.Skipped = res.Skipped
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleClip handles GET /v1/narrations/{id}/clips/{index} requests.
func (s *Server) handleClip(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.lookup(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "clip index must be an integer")
		return
	}

	if snap.Status != queue.StatusDone {
		writeError(w, http.StatusConflict, "narration is "+string(snap.Status))
		return
	}

	res, _ := snap.Result.(*render.Result)
	clip, ok := res.Clip(index)
	if !ok {
		writeError(w, http.StatusNotFound, "clip not found")
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(clip)))
	w.WriteHeader(http.StatusOK)
	w.Write(clip)
}
