package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/murmure-go/internal/analyzer"
	"github.com/dgnsrekt/murmure-go/internal/llm"
	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, llm.Request) (string, error) { return s.reply, s.err }
func (s stubCompleter) Name() string                                          { return "stub" }

func newPipeline(t *testing.T, c llm.Completer) *Pipeline {
	t.Helper()
	p, err := New(tables.Default(), Options{Completer: c}, testLogger())
	require.NoError(t, err)
	return p
}

func TestRun_EmptyInput(t *testing.T) {
	p := newPipeline(t, nil)
	for _, text := range []string{"", "   ", "\n\t\n"} {
		_, err := p.Run(context.Background(), text)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
}

func TestRun_LocalOnly(t *testing.T) {
	p := newPipeline(t, nil)
	assert.Equal(t, []string{ProducerLocal, ProducerDefault}, p.Producers())

	res, err := p.Run(context.Background(), "Elle murmure doucement à mon oreille...\n\nSur la plage, il l'embrasse avec passion.")
	require.NoError(t, err)

	assert.Equal(t, ProducerLocal, res.Source)
	assert.False(t, res.Degraded)
	require.Len(t, res.Segments, 2)

	first, second := res.Segments[0], res.Segments[1]
	assert.Equal(t, segment.Whisper, first.Emotion)
	assert.LessOrEqual(t, first.Params.Rate, 22)
	assert.Equal(t, "bedroom", first.Environment.Label)
	assert.Equal(t, "ambience/chambre_calme.mp3", first.Environment.AmbientSoundID)
	assert.Zero(t, first.EmotionShiftMs)

	assert.Equal(t, segment.Intense, second.Emotion)
	assert.Equal(t, "beach", second.Environment.Label)
	assert.Equal(t, []string{"ambience/plage_vagues.mp3", "ambience/plage_mouettes.mp3"}, second.Environment.Sounds)
	assert.Equal(t, 500, second.EmotionShiftMs, "whisper to intense is unlisted")

	require.NotNil(t, first.Timing)
	assert.Equal(t, segment.Crossfade, first.Timing.Transition.Kind)
	assert.InDelta(t, first.Timing.Duration-1.0, second.Timing.StartTime, 1e-9)
	assert.InDelta(t, second.Timing.End(), res.Duration, 1e-9)
}

func TestRun_RemoteSuccess(t *testing.T) {
	reply := "```json\n" + `{"segments": [
		{"text": "1. Il entre.", "vocal": {"intensity": 35, "type": "sensual"},
		 "synthesisParams": {"stability": 0.9, "expressiveness": 0.5, "ratePercentStr": "80%"}},
		{"text": "Elle gémit...", "vocal": {"intensity": 70, "type": "aroused"},
		 "environment": {"type": "pluie", "suggestedSound": "ambience/pluie_tonnerre.mp3"}},
		{"text": "Oui!", "vocal": {"intensity": 98, "type": "climax"},
		 "synthesisParams": {"ratePercentStr": "40%", "pitchShift": "+30%"}}
	]}` + "\n```"

	p := newPipeline(t, stubCompleter{reply: reply})
	res, err := p.Run(context.Background(), "whatever")
	require.NoError(t, err)

	assert.Equal(t, ProducerRemote, res.Source)
	assert.False(t, res.Degraded)
	require.Len(t, res.Segments, 3)

	s0 := res.Segments[0]
	assert.Equal(t, "Il entre.", s0.Text)
	assert.Equal(t, 0.75, s0.Params.Stability, "suggested stability is clamped")
	assert.Equal(t, 0.75, s0.Params.Expressiveness)
	assert.Equal(t, tables.MaxRatePercent, s0.Params.Rate, "suggested rate is capped")

	s1 := res.Segments[1]
	assert.Equal(t, segment.Aroused, s1.Emotion)
	assert.Equal(t, "ambience/pluie_tonnerre.mp3", s1.Environment.AmbientSoundID)
	assert.Equal(t, 600, s1.EmotionShiftMs)

	s2 := res.Segments[2]
	assert.Equal(t, 35, s2.Params.Rate)
	assert.Equal(t, "35%", s2.Params.RatePercent)
	assert.Equal(t, 20, s2.Params.Pitch)
	assert.Equal(t, 300, s2.EmotionShiftMs)
	assert.InDelta(t, 0.98, s2.Params.Expressiveness, 1e-9)

	for i, s := range res.Segments {
		assert.Equal(t, i, s.Index)
		assert.LessOrEqual(t, s.Params.Rate, tables.MaxRatePercent)
	}
}

func TestRun_RemoteFailureDegradesToLocal(t *testing.T) {
	p := newPipeline(t, stubCompleter{err: &llm.StatusError{Provider: "stub", StatusCode: 502}})

	res, err := p.Run(context.Background(), "Il pose son manteau.\n\nLa pièce est silencieuse.")
	require.NoError(t, err)

	assert.Equal(t, ProducerLocal, res.Source)
	assert.True(t, res.Degraded)
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "remote")

	def := tables.Default()
	tier, _ := def.Tier(def.DefaultTier)
	for _, s := range res.Segments {
		assert.Equal(t, segment.SourceLocal, s.Source)
		assert.Equal(t, tier.Rate.Mid(), s.Params.Rate)
		assert.Equal(t, tier.Pitch.Mid(), s.Params.Pitch)
	}
}

func TestRun_UnknownEnvironmentWarns(t *testing.T) {
	reply := `{"segments": [{"text": "Dans le vaisseau spatial.", "vocal": {"type": "tender"}, "environment": {"type": "vaisseau"}}]}`
	p := newPipeline(t, stubCompleter{reply: reply})

	res, err := p.Run(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, res.Segments, 1)

	env := res.Segments[0].Environment
	assert.Equal(t, "vaisseau", env.Label)
	assert.Equal(t, "ambience/chambre_calme.mp3", env.AmbientSoundID)
	assert.Len(t, res.Warnings, 1)
}

func TestRun_ExhaustedChain(t *testing.T) {
	failing := analyzer.Producer{Name: "only", Produce: func(context.Context, string) ([]segment.Draft, error) {
		return nil, errors.New("down")
	}}
	p := NewWithChain(analyzer.NewChain(testLogger(), failing), tables.Default(), testLogger())

	_, err := p.Run(context.Background(), "texte")
	assert.ErrorIs(t, err, analyzer.ErrExhausted)
}

func TestFinalize_ProgressionRaisesExpressiveness(t *testing.T) {
	p := newPipeline(t, nil)
	drafts := make([]segment.Draft, 5)
	for i := range drafts {
		drafts[i] = segment.Draft{Text: "Un mot.", Emotion: segment.Tender, Intensity: 30}
	}

	segs := p.Finalize(drafts, nil)
	require.Len(t, segs, 5)
	for i := 1; i < len(segs); i++ {
		assert.GreaterOrEqual(t, segs[i].Params.Expressiveness, segs[i-1].Params.Expressiveness)
		assert.Nil(t, segs[i].Timing)
	}
	assert.InDelta(t, 0.78, segs[0].Params.Expressiveness, 1e-9)
	assert.InDelta(t, 0.93, segs[4].Params.Expressiveness, 1e-9)
}

func TestFinalize_InvalidEmotionDefaults(t *testing.T) {
	p := newPipeline(t, nil)
	var warnings []string

	segs := p.Finalize([]segment.Draft{{Text: "abc", Emotion: "bored"}}, &warnings)
	assert.Equal(t, segment.DefaultEmotion, segs[0].Emotion)
	assert.Equal(t, segment.RateSlow, segs[0].Rhythm)
	assert.Equal(t, segment.BreathingLight, segs[0].Breathing)
	assert.Len(t, warnings, 1)
}
