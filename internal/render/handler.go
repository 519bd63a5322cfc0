// Package render turns queued narration jobs into audio clips.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/queue"
	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/timeline"
	"github.com/dgnsrekt/murmure-go/internal/tts"
)

var (
	// ErrNoTTSEngine is returned when the requested engine is not registered.
	ErrNoTTSEngine = errors.New("no TTS engine available")
	// ErrNothingRendered is returned when every segment failed to synthesize.
	ErrNothingRendered = errors.New("no segment could be synthesized")
)

// Result is what a finished narration job holds: the timeline retimed on
// measured clip lengths, one WAV clip per surviving segment and the indices
// of the segments that were dropped.
type Result struct {
	Narration *pipeline.Result `json:"narration"`
	Engine    string           `json:"engine"`
	Clips     [][]byte         `json:"-"`
	Skipped   []int            `json:"skipped,omitempty"`
}

// Clip returns the WAV clip at index i.
func (r *Result) Clip(i int) ([]byte, bool) {
	if r == nil || i < 0 || i >= len(r.Clips) {
		return nil, false
	}
	return r.Clips[i], true
}

// Handler analyzes and synthesizes narration jobs.
type Handler struct {
	pipeline *pipeline.Pipeline
	registry *tts.Registry
	logger   *slog.Logger
}

// NewHandler creates a new render handler.
func NewHandler(p *pipeline.Pipeline, registry *tts.Registry, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline: p,
		registry: registry,
		logger:   logger,
	}
}

// Handle processes a single narration job.
// This is the function passed to queue.SetHandler.
func (h *Handler) Handle(ctx context.Context, job *queue.NarrationJob) (any, error) {
	h.logger.Info("processing narration job",
		"job_id", job.ID,
		"text_length", len(job.Text),
		"voice", job.Voice,
	)

	engine, err := h.registry.Resolve(job.Engine)
	if err != nil {
		return nil, errors.Join(ErrNoTTSEngine, err)
	}

	narration, err := h.pipeline.Run(ctx, job.Text)
	if err != nil {
		return nil, err
	}

	var (
		kept      []segment.Segment
		durations []float64
		clips     [][]byte
		skipped   []int
	)
	// Segments are synthesized one at a time so an interrupt stops the job
	// between clips.
	for i, s := range narration.Segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		audio, err := engine.Synthesize(ctx, tts.SynthesizeRequest{
			Text:    s.Text,
			Voice:   job.Voice,
			Prosody: tts.ProsodyFrom(s.Params),
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			h.logger.Warn("segment synthesis failed, skipping",
				"job_id", job.ID, "segment", i, "error", err)
			skipped = append(skipped, i)
			narration.Warnings = append(narration.Warnings, fmt.Sprintf("segment %d: synthesis failed: %v", i, err))
			continue
		}

		d, err := audio.Duration()
		if err != nil {
			h.logger.Warn("unreadable clip, using estimate",
				"job_id", job.ID, "segment", i, "error", err)
			d = 0
		}

		kept = append(kept, s)
		durations = append(durations, d)
		clips = append(clips, audio.Data)
	}

	if len(kept) == 0 {
		return nil, ErrNothingRendered
	}

	narration.Segments = timeline.AssembleMeasured(kept, durations)
	narration.Duration = timeline.Total(narration.Segments)

	h.logger.Info("narration rendered",
		"job_id", job.ID,
		"engine", engine.Name(),
		"clips", len(clips),
		"skipped", len(skipped),
		"duration_s", narration.Duration,
	)

	return &Result{
		Narration: narration,
		Engine:    engine.Name(),
		Clips:     clips,
		Skipped:   skipped,
	}, nil
}
