// Package prosody derives bounded synthesis parameters from an emotion
// label, its intensity and the position of a segment in the narrative.
package prosody

import (
	"math"
	"strconv"
	"strings"

	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

// Global parameter bands. Every value leaving the engine lies inside them.
const (
	StabilityFloor      = 0.15
	StabilityCeiling    = 0.75
	ExpressivenessFloor = 0.75
	ExpressivenessCeil  = 0.98

	// MaxPitchShift bounds remote pitch suggestions in either direction.
	MaxPitchShift = 20

	intensityDamping = 0.3
	progressionBoost = 0.15
)

// Engine is read-only after construction and safe for concurrent use.
type Engine struct {
	tables *tables.Tables
}

// New returns an engine over t.
func New(t *tables.Tables) *Engine {
	return &Engine{tables: t}
}

// Tier picks the rate/pitch tier. A vocal type naming a tier wins;
// otherwise the emotion's tier is used. Unknown labels land on the default
// tier.
func (e *Engine) Tier(emotion segment.Emotion, vocalType string) tables.Tier {
	if vt := strings.ToLower(strings.TrimSpace(vocalType)); vt != "" {
		if tier, ok := e.tables.Tier(vt); ok {
			return tier
		}
	}
	if tier, ok := e.tables.Tier(e.tables.Profile(emotion).Tier); ok {
		return tier
	}
	if tier, ok := e.tables.Tier(e.tables.DefaultTier); ok {
		return tier
	}
	return tables.Tier{
		Name:   e.tables.DefaultTier,
		Rate:   tables.IntRange{Min: 0, Max: tables.MaxRatePercent},
		Rhythm: segment.RateModerate,
	}
}

// Derive computes the parameter tuple for an emotion. It never fails:
// unknown emotions use the default profile and tier.
func (e *Engine) Derive(emotion segment.Emotion, intensity, progression float64) segment.SynthesisParams {
	return e.DeriveVoiced(emotion, "", intensity, progression)
}

// DeriveVoiced is Derive with an explicit vocal type for tier selection.
func (e *Engine) DeriveVoiced(emotion segment.Emotion, vocalType string, intensity, progression float64) segment.SynthesisParams {
	intensity = clamp(intensity, 0, 100)
	progression = clamp(progression, 0, 1)
	profile := e.tables.Profile(emotion)

	stability := clamp(profile.Stability*(1-intensity/100*intensityDamping), StabilityFloor, StabilityCeiling)
	expressiveness := clamp(profile.Expressiveness+progression*progressionBoost, ExpressivenessFloor, ExpressivenessCeil)

	tier := e.Tier(emotion, vocalType)
	rate, pitch := tier.Rate.Mid(), tier.Pitch.Mid()
	if emotion == segment.Climax {
		rate, pitch = tier.Rate.Max, tier.Pitch.Max
	}

	return build(stability, expressiveness, clampRate(tier, rate), pitch)
}

// Reconcile starts from the derived parameters and replaces them with the
// suggested ones where present, after bounding each into its band.
func (e *Engine) Reconcile(emotion segment.Emotion, vocalType string, intensity, progression float64, s segment.Suggested) segment.SynthesisParams {
	p := e.DeriveVoiced(emotion, vocalType, intensity, progression)
	tier := e.Tier(emotion, vocalType)

	if s.Stability > 0 {
		p.Stability = clamp(s.Stability, StabilityFloor, StabilityCeiling)
	}
	if s.Expressiveness > 0 {
		p.Expressiveness = clamp(s.Expressiveness, ExpressivenessFloor, ExpressivenessCeil)
	}
	if rate, ok := ParsePercent(s.RatePercent); ok {
		p.Rate = clampRate(tier, rate)
	}
	if pitch, ok := ParsePercent(s.PitchShift); ok {
		p.Pitch = int(clamp(float64(pitch), -MaxPitchShift, MaxPitchShift))
	}

	return build(p.Stability, p.Expressiveness, p.Rate, p.Pitch)
}

// TransitionDuration returns how long, in milliseconds, a change from one
// emotion to another should take. Unlisted pairs use the table default.
func (e *Engine) TransitionDuration(from, to segment.Emotion) int {
	if row, ok := e.tables.Transitions[from]; ok {
		if ms, ok := row[to]; ok {
			return ms
		}
	}
	return e.tables.DefaultTransitionMs
}

// DefaultIntensity is the intensity assumed for an emotion when nothing
// better is known.
func (e *Engine) DefaultIntensity(emotion segment.Emotion) float64 {
	return e.tables.Profile(emotion).Intensity
}

// Breathing maps intensity onto a breathing style.
func (e *Engine) Breathing(intensity float64) segment.Breathing {
	switch {
	case intensity < 40:
		return segment.BreathingLight
	case intensity < 75:
		return segment.BreathingDeep
	default:
		return segment.BreathingPanting
	}
}

// Rhythm returns the speech-rate category of the tier chosen for emotion.
func (e *Engine) Rhythm(emotion segment.Emotion, vocalType string) segment.RateCategory {
	if r := e.Tier(emotion, vocalType).Rhythm; r != "" {
		return r
	}
	return segment.RateModerate
}

// ParsePercent reads "18%", "+18 %", "-4%" or "18.4" and rounds to an int.
func ParsePercent(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimPrefix(s, "+"))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Round(f)), true
}

func clampRate(tier tables.Tier, rate int) int {
	floor := tier.Rate.Min
	if floor > tables.MaxRatePercent {
		floor = tables.MaxRatePercent
	}
	if rate < floor {
		return floor
	}
	if rate > tables.MaxRatePercent {
		return tables.MaxRatePercent
	}
	return rate
}

func build(stability, expressiveness float64, rate, pitch int) segment.SynthesisParams {
	return segment.SynthesisParams{
		Stability:      round3(stability),
		Expressiveness: round3(expressiveness),
		Rate:           rate,
		Pitch:          pitch,
		RatePercent:    segment.FormatRate(rate),
		PitchPercent:   segment.FormatPitch(pitch),
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
