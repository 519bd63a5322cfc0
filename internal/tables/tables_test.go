package tables

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/murmure-go/internal/segment"
)

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefault_EveryEmotionHasTier(t *testing.T) {
	tb := Default()
	for _, e := range segment.Emotions {
		p := tb.Profile(e)
		_, ok := tb.Tier(p.Tier)
		assert.True(t, ok, "emotion %s tier %s", e, p.Tier)
	}
}

func TestDefault_TierCeilingRespectsMaxRate(t *testing.T) {
	for _, tier := range Default().Tiers {
		assert.LessOrEqual(t, tier.Rate.Max, MaxRatePercent, tier.Name)
	}
}

func TestIntRange(t *testing.T) {
	r := IntRange{Min: 10, Max: 22}
	assert.Equal(t, 16, r.Mid())
	assert.Equal(t, 10, r.Clamp(3))
	assert.Equal(t, 22, r.Clamp(40))
	assert.Equal(t, 15, r.Clamp(15))
}

func TestValidate_Errors(t *testing.T) {
	tb := Default()
	delete(tb.Emotions, segment.Climax)
	tb.DefaultAmbience = "nowhere"
	tb.Interjections = append(tb.Interjections, InterjectionPattern{Sound: "bad", Pattern: "(("})

	err := tb.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTables))
	assert.Contains(t, err.Error(), "climax")
	assert.Contains(t, err.Error(), "nowhere")
	assert.Contains(t, err.Error(), "bad")
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	tb, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().DefaultTransitionMs, tb.DefaultTransitionMs)
}

func TestLoad_OverridesOnTopOfDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	content := `
default_transition_ms: 750
emotions:
  whisper:
    stability: 0.72
    expressiveness: 0.79
    tier: whisper
    intensity: 15
ambience:
  - name: grenier
    keys: [grenier, attic]
    sounds: [ambience/grenier.mp3]
  - name: chambre
    keys: [chambre]
    sounds: [ambience/chambre_calme.mp3]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tb, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 750, tb.DefaultTransitionMs)
	assert.InDelta(t, 0.72, tb.Emotions[segment.Whisper].Stability, 1e-9)
	// untouched map keys survive the merge
	assert.InDelta(t, 0.30, tb.Emotions[segment.Climax].Stability, 1e-9)
	require.Len(t, tb.Ambience, 2)
	assert.Equal(t, "grenier", tb.Ambience[0].Name)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_ambience: nowhere\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTables))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/tables.yaml")
	assert.Error(t, err)
}

func TestWrite_RoundTripsThroughLoad(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Default()))

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	tb, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Tiers, tb.Tiers)
	assert.Equal(t, Default().EmotionCues, tb.EmotionCues)
}
