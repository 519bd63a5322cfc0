package prosody

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

func newEngine() *Engine {
	return New(tables.Default())
}

func TestDerive_BandsHoldForAllInputs(t *testing.T) {
	e := newEngine()
	labels := append(append([]segment.Emotion(nil), segment.Emotions...), "unknown")

	for _, label := range labels {
		for intensity := 0.0; intensity <= 100; intensity += 5 {
			for progression := 0.0; progression <= 1.0; progression += 0.1 {
				p := e.Derive(label, intensity, progression)
				tier := e.Tier(label, "")

				assert.GreaterOrEqual(t, p.Stability, StabilityFloor)
				assert.LessOrEqual(t, p.Stability, StabilityCeiling)
				assert.GreaterOrEqual(t, p.Expressiveness, ExpressivenessFloor)
				assert.LessOrEqual(t, p.Expressiveness, ExpressivenessCeil)
				assert.LessOrEqual(t, p.Rate, tables.MaxRatePercent)
				assert.GreaterOrEqual(t, p.Rate, tier.Rate.Min)
			}
		}
	}
}

func TestDerive_OutOfRangeInputsAreClamped(t *testing.T) {
	e := newEngine()
	p := e.Derive(segment.Climax, 500, 7)
	assert.GreaterOrEqual(t, p.Stability, StabilityFloor)
	assert.LessOrEqual(t, p.Expressiveness, ExpressivenessCeil)

	p = e.Derive(segment.Whisper, -20, -1)
	assert.LessOrEqual(t, p.Stability, StabilityCeiling)
	assert.GreaterOrEqual(t, p.Expressiveness, ExpressivenessFloor)
}

func TestDerive_WhisperScenario(t *testing.T) {
	e := newEngine()
	tb := tables.Default()

	base := tb.Profile(segment.Whisper).Stability
	assert.GreaterOrEqual(t, base, 0.65)
	assert.LessOrEqual(t, base, 0.75)

	p := e.Derive(segment.Whisper, 20, 0)
	assert.LessOrEqual(t, p.Rate, 22)
	assert.Equal(t, 16, p.Rate)
	assert.Equal(t, "16%", p.RatePercent)
	assert.InDelta(t, 0.70*(1-0.2*0.3), p.Stability, 0.001)
	assert.Equal(t, 0.80, p.Expressiveness)
}

func TestDerive_IntensityLowersStability(t *testing.T) {
	e := newEngine()
	calm := e.Derive(segment.Sensual, 0, 0.5)
	hot := e.Derive(segment.Sensual, 100, 0.5)
	assert.Greater(t, calm.Stability, hot.Stability)
}

func TestDerive_ProgressionRaisesExpressiveness(t *testing.T) {
	e := newEngine()
	start := e.Derive(segment.Aroused, 50, 0)
	end := e.Derive(segment.Aroused, 50, 1)
	assert.Greater(t, end.Expressiveness, start.Expressiveness)
}

func TestDerive_ClimaxTakesTierCeiling(t *testing.T) {
	e := newEngine()
	p := e.Derive(segment.Climax, 95, 1)
	assert.Equal(t, 35, p.Rate)
	assert.Equal(t, 8, p.Pitch)
	assert.Equal(t, "+8%", p.PitchPercent)
}

func TestDerive_UnknownEmotionUsesSensualTier(t *testing.T) {
	e := newEngine()
	assert.Equal(t, e.Derive(segment.Sensual, 40, 0.2), e.Derive("ecstatic", 40, 0.2))
	assert.Equal(t, tables.TierSensual, e.Tier("ecstatic", "").Name)
}

func TestTier_VocalTypeOverridesEmotion(t *testing.T) {
	e := newEngine()
	assert.Equal(t, tables.TierWhisper, e.Tier(segment.Aroused, "Whisper").Name)
	assert.Equal(t, tables.TierAroused, e.Tier(segment.Aroused, "breathy").Name)
	assert.Equal(t, tables.TierAroused, e.Tier(segment.Intense, "").Name)
}

func TestReconcile(t *testing.T) {
	e := newEngine()

	t.Run("clamps suggestions", func(t *testing.T) {
		p := e.Reconcile(segment.Whisper, "", 20, 0, segment.Suggested{
			Stability:      0.95,
			Expressiveness: 0.5,
			RatePercent:    "+60%",
			PitchShift:     "-45%",
		})
		assert.Equal(t, StabilityCeiling, p.Stability)
		assert.Equal(t, ExpressivenessFloor, p.Expressiveness)
		assert.Equal(t, tables.MaxRatePercent, p.Rate)
		assert.Equal(t, -MaxPitchShift, p.Pitch)
	})

	t.Run("rate below tier floor is raised", func(t *testing.T) {
		p := e.Reconcile(segment.Climax, "", 90, 1, segment.Suggested{RatePercent: "-10%"})
		assert.Equal(t, 28, p.Rate)
		assert.Equal(t, "28%", p.RatePercent)
	})

	t.Run("missing suggestions fall back to derived", func(t *testing.T) {
		want := e.DeriveVoiced(segment.Tender, "", 30, 0.5)
		got := e.Reconcile(segment.Tender, "", 30, 0.5, segment.Suggested{RatePercent: "fast"})
		assert.Equal(t, want, got)
	})

	t.Run("in-band suggestions kept", func(t *testing.T) {
		p := e.Reconcile(segment.Sensual, "", 40, 0.3, segment.Suggested{
			Stability:      0.55,
			Expressiveness: 0.85,
			RatePercent:    "20%",
			PitchShift:     "-2%",
		})
		assert.Equal(t, 0.55, p.Stability)
		assert.Equal(t, 0.85, p.Expressiveness)
		assert.Equal(t, 20, p.Rate)
		assert.Equal(t, -2, p.Pitch)
	})
}

func TestTransitionDuration(t *testing.T) {
	e := newEngine()

	assert.Equal(t, 1500, e.TransitionDuration(segment.Climax, segment.Tender))
	assert.Equal(t, 300, e.TransitionDuration(segment.Aroused, segment.Climax))

	for _, a := range segment.Emotions {
		assert.Equal(t, 500, e.TransitionDuration(a, a), "self pair %s", a)
	}
	assert.Equal(t, 500, e.TransitionDuration("unknown", segment.Climax))
	assert.Equal(t, 500, e.TransitionDuration(segment.Climax, "unknown"))
}

func TestTransitionDuration_SubstitutedTables(t *testing.T) {
	tb := tables.Default()
	tb.DefaultTransitionMs = 42
	tb.Transitions = nil
	e := New(tb)
	assert.Equal(t, 42, e.TransitionDuration(segment.Climax, segment.Tender))
}

func TestBreathing(t *testing.T) {
	e := newEngine()
	assert.Equal(t, segment.BreathingLight, e.Breathing(10))
	assert.Equal(t, segment.BreathingDeep, e.Breathing(60))
	assert.Equal(t, segment.BreathingPanting, e.Breathing(90))
}

func TestRhythm(t *testing.T) {
	e := newEngine()
	assert.Equal(t, segment.RateVerySlow, e.Rhythm(segment.Whisper, ""))
	assert.Equal(t, segment.RateFast, e.Rhythm(segment.Climax, ""))
	assert.Equal(t, segment.RateSlow, e.Rhythm("unknown", ""))
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"18%", 18, true},
		{"+18 %", 18, true},
		{"-4%", -4, true},
		{"18.6", 19, true},
		{"", 0, false},
		{"fast", 0, false},
		{"%", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
