// Package tables holds the immutable lookup data that drives classification
// and parameter derivation: emotion profiles, rate/pitch tiers, the emotion
// transition matrix, keyword cues, interjection patterns and the ambience
// catalog.
//
// A Tables value is built once at startup (Default or Load) and passed to
// the components that need it. Nothing mutates it afterwards.
package tables

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dgnsrekt/murmure-go/internal/segment"
)

// MaxRatePercent is the absolute ceiling on speech rate, whatever the source.
const MaxRatePercent = 35

var (
	// ErrInvalidTables is returned when a tables file fails validation.
	ErrInvalidTables = errors.New("invalid tables")
)

// IntRange is a closed integer interval.
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Mid returns the midpoint, rounded toward Min.
func (r IntRange) Mid() int {
	return r.Min + (r.Max-r.Min)/2
}

// Clamp bounds v into the range.
func (r IntRange) Clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// FloatRange is a closed float interval.
type FloatRange struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// EmotionProfile is the fixed per-emotion base data.
type EmotionProfile struct {
	Stability      float64 `yaml:"stability"`
	Expressiveness float64 `yaml:"expressiveness"`
	Tier           string  `yaml:"tier"`
	Intensity      float64 `yaml:"intensity"`
}

// Tier is a rate/pitch bucket. The stability, expressiveness and intensity
// bands are advisory and only rendered into the remote analysis prompt.
type Tier struct {
	Name           string               `yaml:"name"`
	Rate           IntRange             `yaml:"rate"`
	Pitch          IntRange             `yaml:"pitch"`
	Rhythm         segment.RateCategory `yaml:"rhythm"`
	Intensity      FloatRange           `yaml:"intensity"`
	Stability      FloatRange           `yaml:"stability"`
	Expressiveness FloatRange           `yaml:"expressiveness"`
}

// Cue maps a label to the keywords that trigger it.
type Cue struct {
	Label string   `yaml:"label"`
	Words []string `yaml:"words"`
}

// InterjectionPattern detects one family of non-lexical vocalizations.
// Duration grows by PerCharMs for every character beyond MinLen.
type InterjectionPattern struct {
	Sound     string `yaml:"sound"`
	Pattern   string `yaml:"pattern"`
	MinLen    int    `yaml:"min_len"`
	BaseMs    int    `yaml:"base_ms"`
	PerCharMs int    `yaml:"per_char_ms"`
}

// AmbienceEntry is one catalog entry: any of Keys selects Sounds.
type AmbienceEntry struct {
	Name   string   `yaml:"name"`
	Keys   []string `yaml:"keys"`
	Sounds []string `yaml:"sounds"`
}

// Tables is the full set of lookup data.
type Tables struct {
	Emotions            map[segment.Emotion]EmotionProfile         `yaml:"emotions"`
	Tiers               []Tier                                     `yaml:"tiers"`
	DefaultTier         string                                     `yaml:"default_tier"`
	Transitions         map[segment.Emotion]map[segment.Emotion]int `yaml:"transitions"`
	DefaultTransitionMs int                                        `yaml:"default_transition_ms"`
	EmotionCues         []Cue                                      `yaml:"emotion_cues"`
	SceneCues           []Cue                                      `yaml:"scene_cues"`
	DefaultScene        string                                     `yaml:"default_scene"`
	Interjections       []InterjectionPattern                      `yaml:"interjections"`
	Ambience            []AmbienceEntry                            `yaml:"ambience"`
	DefaultAmbience     string                                     `yaml:"default_ambience"`
}

// Tier returns the tier with the given name.
func (t *Tables) Tier(name string) (Tier, bool) {
	for _, tier := range t.Tiers {
		if tier.Name == name {
			return tier, true
		}
	}
	return Tier{}, false
}

// Profile returns the profile for e, falling back to the default emotion.
func (t *Tables) Profile(e segment.Emotion) EmotionProfile {
	if p, ok := t.Emotions[e]; ok {
		return p
	}
	return t.Emotions[segment.DefaultEmotion]
}

// AmbienceEntry returns the catalog entry with the given name.
func (t *Tables) AmbienceEntry(name string) (AmbienceEntry, bool) {
	for _, e := range t.Ambience {
		if e.Name == name {
			return e, true
		}
	}
	return AmbienceEntry{}, false
}

// Validate checks that the tables are complete and internally consistent.
func (t *Tables) Validate() error {
	var errs []error

	for _, e := range segment.Emotions {
		p, ok := t.Emotions[e]
		if !ok {
			errs = append(errs, fmt.Errorf("missing emotion profile %q", e))
			continue
		}
		if p.Stability <= 0 || p.Stability > 1 {
			errs = append(errs, fmt.Errorf("emotion %q: stability %v out of (0,1]", e, p.Stability))
		}
		if p.Expressiveness <= 0 || p.Expressiveness > 1 {
			errs = append(errs, fmt.Errorf("emotion %q: expressiveness %v out of (0,1]", e, p.Expressiveness))
		}
		if _, ok := t.Tier(p.Tier); !ok {
			errs = append(errs, fmt.Errorf("emotion %q: unknown tier %q", e, p.Tier))
		}
	}

	for _, tier := range t.Tiers {
		if tier.Rate.Min > tier.Rate.Max || tier.Pitch.Min > tier.Pitch.Max {
			errs = append(errs, fmt.Errorf("tier %q: inverted range", tier.Name))
		}
		if tier.Rate.Min > MaxRatePercent {
			errs = append(errs, fmt.Errorf("tier %q: rate floor %d above %d", tier.Name, tier.Rate.Min, MaxRatePercent))
		}
	}
	if _, ok := t.Tier(t.DefaultTier); !ok {
		errs = append(errs, fmt.Errorf("default tier %q not defined", t.DefaultTier))
	}

	for _, p := range t.Interjections {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("interjection %q: %w", p.Sound, err))
		}
	}

	if len(t.Ambience) == 0 {
		errs = append(errs, errors.New("ambience catalog is empty"))
	}
	for _, e := range t.Ambience {
		if len(e.Sounds) == 0 {
			errs = append(errs, fmt.Errorf("ambience %q has no sounds", e.Name))
		}
	}
	if _, ok := t.AmbienceEntry(t.DefaultAmbience); !ok {
		errs = append(errs, fmt.Errorf("default ambience %q not in catalog", t.DefaultAmbience))
	}

	if t.DefaultScene == "" {
		errs = append(errs, errors.New("default scene is empty"))
	}
	if t.DefaultTransitionMs < 0 {
		errs = append(errs, errors.New("default transition must be non-negative"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidTables}, errs...)...)
	}
	return nil
}
