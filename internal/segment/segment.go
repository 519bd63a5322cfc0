// Package segment defines the unit of narration: a span of text with its
// emotional state, derived synthesis parameters and timeline position.
package segment

import (
	"fmt"
	"strings"
)

// Emotion is the closed set of vocal affects a segment can carry.
type Emotion string

const (
	Sensual Emotion = "sensual"
	Aroused Emotion = "aroused"
	Climax  Emotion = "climax"
	Whisper Emotion = "whisper"
	Intense Emotion = "intense"
	Tender  Emotion = "tender"
)

// DefaultEmotion is used whenever a label is missing or unknown.
const DefaultEmotion = Sensual

// Emotions lists every label in a fixed order.
var Emotions = []Emotion{Sensual, Aroused, Climax, Whisper, Intense, Tender}

// Valid reports whether e belongs to the closed set.
func (e Emotion) Valid() bool {
	for _, known := range Emotions {
		if e == known {
			return true
		}
	}
	return false
}

// ParseEmotion maps a free-form label onto the closed set.
// Unknown labels return DefaultEmotion and an *UnknownCategoryError.
func ParseEmotion(s string) (Emotion, error) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	if e.Valid() {
		return e, nil
	}
	return DefaultEmotion, &UnknownCategoryError{Kind: "emotion", Value: s}
}

// Breathing is the breathing style a synthesis engine should imitate.
type Breathing string

const (
	BreathingLight   Breathing = "light"
	BreathingDeep    Breathing = "deep"
	BreathingPanting Breathing = "panting"
)

// ParseBreathing maps a free-form label onto a breathing style.
func ParseBreathing(s string) (Breathing, bool) {
	switch b := Breathing(strings.ToLower(strings.TrimSpace(s))); b {
	case BreathingLight, BreathingDeep, BreathingPanting:
		return b, true
	}
	return BreathingLight, false
}

// RateCategory is the coarse speech-rate bucket used for duration estimates.
type RateCategory string

const (
	RateVerySlow RateCategory = "very-slow"
	RateSlow     RateCategory = "slow"
	RateModerate RateCategory = "moderate"
	RateFast     RateCategory = "fast"
)

// ParseRateCategory accepts hyphen, underscore and space separated forms.
func ParseRateCategory(s string) (RateCategory, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	switch c := RateCategory(norm); c {
	case RateVerySlow, RateSlow, RateModerate, RateFast:
		return c, true
	}
	return RateModerate, false
}

// TransitionKind is the stitching strategy at a segment boundary.
type TransitionKind string

const (
	Crossfade TransitionKind = "crossfade"
	Cut       TransitionKind = "cut"
	Overlap   TransitionKind = "overlap"
)

// Source records which producer created a segment.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Interjection is a non-lexical vocalization attached to a segment.
type Interjection struct {
	Sound      string `json:"sound" yaml:"sound"`
	DurationMs int    `json:"duration_ms" yaml:"duration_ms"`
}

// Environment is the scene a segment happens in.
type Environment struct {
	Label          string   `json:"label" yaml:"label"`
	AmbientSoundID string   `json:"ambient_sound_id,omitempty" yaml:"ambient_sound_id,omitempty"`
	Sounds         []string `json:"sounds,omitempty" yaml:"sounds,omitempty"`
}

// SynthesisParams is the bounded parameter tuple handed to a synthesis engine.
type SynthesisParams struct {
	Stability      float64 `json:"stability" yaml:"stability"`
	Expressiveness float64 `json:"expressiveness" yaml:"expressiveness"`
	Rate           int     `json:"rate" yaml:"rate"`
	Pitch          int     `json:"pitch" yaml:"pitch"`
	RatePercent    string  `json:"rate_percent" yaml:"rate_percent"`
	PitchPercent   string  `json:"pitch_percent" yaml:"pitch_percent"`
}

// FormatRate renders a rate as the percent string synthesis engines expect.
func FormatRate(rate int) string {
	return fmt.Sprintf("%d%%", rate)
}

// FormatPitch renders a signed pitch shift.
func FormatPitch(pitch int) string {
	return fmt.Sprintf("%+d%%", pitch)
}

// Transition describes how a segment hands over to the next one.
type Transition struct {
	Kind     TransitionKind `json:"kind" yaml:"kind"`
	Duration float64        `json:"duration" yaml:"duration"`
}

// Timing places a segment on the audio timeline. All values are seconds.
type Timing struct {
	StartTime  float64    `json:"start_time" yaml:"start_time"`
	Duration   float64    `json:"duration" yaml:"duration"`
	FadeIn     float64    `json:"fade_in" yaml:"fade_in"`
	FadeOut    float64    `json:"fade_out" yaml:"fade_out"`
	Transition Transition `json:"transition" yaml:"transition"`
}

// End returns the time at which the segment stops sounding.
func (t Timing) End() float64 {
	return t.StartTime + t.Duration
}

// Segment is one synthesis and timing unit.
type Segment struct {
	Index             int             `json:"index" yaml:"index"`
	Text              string          `json:"text" yaml:"text"`
	Source            Source          `json:"source" yaml:"source"`
	Emotion           Emotion         `json:"emotion" yaml:"emotion"`
	Intensity         float64         `json:"intensity" yaml:"intensity"`
	VocalType         string          `json:"vocal_type" yaml:"vocal_type"`
	Rhythm            RateCategory    `json:"rhythm" yaml:"rhythm"`
	PitchShiftPercent float64         `json:"pitch_shift_percent" yaml:"pitch_shift_percent"`
	Breathing         Breathing       `json:"breathing" yaml:"breathing"`
	Interjections     []Interjection  `json:"interjections,omitempty" yaml:"interjections,omitempty"`
	Environment       Environment     `json:"environment" yaml:"environment"`
	Params            SynthesisParams `json:"synthesis_params" yaml:"synthesis_params"`
	EmotionShiftMs    int             `json:"emotion_shift_ms" yaml:"emotion_shift_ms"`
	Timing            *Timing         `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// Clone returns a deep copy so callers can attach timing without touching
// the original.
func (s Segment) Clone() Segment {
	out := s
	if s.Interjections != nil {
		out.Interjections = append([]Interjection(nil), s.Interjections...)
	}
	if s.Environment.Sounds != nil {
		out.Environment.Sounds = append([]string(nil), s.Environment.Sounds...)
	}
	if s.Timing != nil {
		t := *s.Timing
		out.Timing = &t
	}
	return out
}
