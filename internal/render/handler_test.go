package render

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/queue"
	"github.com/dgnsrekt/murmure-go/internal/tables"
	"github.com/dgnsrekt/murmure-go/internal/tts"
	"github.com/dgnsrekt/murmure-go/internal/wav"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyEngine wraps SilentEngine and fails on texts containing failOn.
type flakyEngine struct {
	failOn string
	calls  []tts.SynthesizeRequest
}

func (f *flakyEngine) Name() string { return "flaky" }

func (f *flakyEngine) Synthesize(ctx context.Context, req tts.SynthesizeRequest) (*tts.AudioResult, error) {
	f.calls = append(f.calls, req)
	if f.failOn != "" && strings.Contains(req.Text, f.failOn) {
		return nil, errors.New("voice unavailable")
	}
	return tts.NewSilentEngine().Synthesize(ctx, req)
}

func newHandler(t *testing.T, engines ...tts.Engine) *Handler {
	t.Helper()
	p, err := pipeline.New(tables.Default(), pipeline.Options{}, testLogger())
	require.NoError(t, err)

	reg := tts.NewRegistry()
	for _, e := range engines {
		require.NoError(t, reg.Register(e))
	}
	return NewHandler(p, reg, testLogger())
}

const story = "Elle murmure doucement à mon oreille...\n\nSur la plage, il l'embrasse avec passion.\n\nPuis le silence revient."

func TestHandle_RendersEverySegment(t *testing.T) {
	engine := &flakyEngine{}
	h := newHandler(t, engine)

	job := queue.NewNarrationJob(story, "2", false, 0, "")
	out, err := h.Handle(context.Background(), job)
	require.NoError(t, err)

	res, ok := out.(*Result)
	require.True(t, ok)
	assert.Equal(t, "flaky", res.Engine)
	require.Len(t, res.Clips, 3)
	require.Len(t, res.Narration.Segments, 3)
	assert.Empty(t, res.Skipped)

	for i, s := range res.Narration.Segments {
		d, err := wav.Duration(res.Clips[i])
		require.NoError(t, err)
		assert.InDelta(t, d, s.Timing.Duration, 1e-9, "segment %d is timed on its clip", i)
	}
	assert.InDelta(t, res.Narration.Segments[2].Timing.End(), res.Narration.Duration, 1e-9)

	require.Len(t, engine.calls, 3)
	for i, call := range engine.calls {
		assert.Equal(t, "2", call.Voice)
		assert.Equal(t, tts.ProsodyFrom(res.Narration.Segments[i].Params), call.Prosody)
	}
}

func TestHandle_SkipsFailedSegments(t *testing.T) {
	h := newHandler(t, &flakyEngine{failOn: "plage"})

	out, err := h.Handle(context.Background(), queue.NewNarrationJob(story, "", false, 0, ""))
	require.NoError(t, err)

	res := out.(*Result)
	assert.Equal(t, []int{1}, res.Skipped)
	require.Len(t, res.Clips, 2)
	require.Len(t, res.Narration.Segments, 2)
	assert.Equal(t, 0, res.Narration.Segments[0].Index)
	assert.Equal(t, 2, res.Narration.Segments[1].Index)
	assert.GreaterOrEqual(t, res.Narration.Segments[1].Timing.StartTime, res.Narration.Segments[0].Timing.StartTime)

	var found bool
	for _, w := range res.Narration.Warnings {
		if strings.Contains(w, "segment 1: synthesis failed") {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", res.Narration.Warnings)
}

func TestHandle_AllSegmentsFail(t *testing.T) {
	h := newHandler(t, &flakyEngine{failOn: " "})

	_, err := h.Handle(context.Background(), queue.NewNarrationJob(story, "", false, 0, ""))
	assert.ErrorIs(t, err, ErrNothingRendered)
}

func TestHandle_UnknownEngine(t *testing.T) {
	h := newHandler(t, tts.NewSilentEngine())

	job := queue.NewNarrationJob(story, "", false, 0, "")
	job.Engine = "elevenlabs"
	_, err := h.Handle(context.Background(), job)
	assert.ErrorIs(t, err, ErrNoTTSEngine)
	assert.ErrorIs(t, err, tts.ErrEngineNotFound)
}

func TestHandle_EmptyText(t *testing.T) {
	h := newHandler(t, tts.NewSilentEngine())

	_, err := h.Handle(context.Background(), queue.NewNarrationJob("  ", "", false, 0, ""))
	assert.ErrorIs(t, err, pipeline.ErrEmptyInput)
}

func TestHandle_Cancelled(t *testing.T) {
	h := newHandler(t, tts.NewSilentEngine())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Handle(ctx, queue.NewNarrationJob(story, "", false, 0, ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_Clip(t *testing.T) {
	r := &Result{Clips: [][]byte{{1}, {2}}}

	c, ok := r.Clip(1)
	assert.True(t, ok)
	assert.Equal(t, []byte{2}, c)

	_, ok = r.Clip(2)
	assert.False(t, ok)
	_, ok = r.Clip(-1)
	assert.False(t, ok)

	var nilResult *Result
	_, ok = nilResult.Clip(0)
	assert.False(t, ok)
}
