package segment

import (
	"errors"
	"testing"
)

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		input   string
		want    Emotion
		wantErr bool
	}{
		{"whisper", Whisper, false},
		{"  CLIMAX ", Climax, false},
		{"Tender", Tender, false},
		{"ecstatic", Sensual, true},
		{"", Sensual, true},
	}

	for _, tt := range tests {
		got, err := ParseEmotion(tt.input)
		if got != tt.want {
			t.Errorf("ParseEmotion(%q) = %s, want %s", tt.input, got, tt.want)
		}
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEmotion(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		var uce *UnknownCategoryError
		if tt.wantErr && !errors.As(err, &uce) {
			t.Errorf("ParseEmotion(%q) error is not *UnknownCategoryError", tt.input)
		}
	}
}

func TestParseRateCategory(t *testing.T) {
	tests := []struct {
		input string
		want  RateCategory
		ok    bool
	}{
		{"very_slow", RateVerySlow, true},
		{"very slow", RateVerySlow, true},
		{"Slow", RateSlow, true},
		{"fast", RateFast, true},
		{"frantic", RateModerate, false},
	}

	for _, tt := range tests {
		got, ok := ParseRateCategory(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRateCategory(%q) = (%s, %v), want (%s, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseBreathing(t *testing.T) {
	if b, ok := ParseBreathing("Panting"); !ok || b != BreathingPanting {
		t.Errorf("ParseBreathing(Panting) = (%s, %v)", b, ok)
	}
	if b, ok := ParseBreathing("sighing"); ok || b != BreathingLight {
		t.Errorf("ParseBreathing(sighing) = (%s, %v), want (light, false)", b, ok)
	}
}

func TestFormatters(t *testing.T) {
	if got := FormatRate(18); got != "18%" {
		t.Errorf("FormatRate(18) = %q", got)
	}
	if got := FormatPitch(-4); got != "-4%" {
		t.Errorf("FormatPitch(-4) = %q", got)
	}
	if got := FormatPitch(3); got != "+3%" {
		t.Errorf("FormatPitch(3) = %q", got)
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := Segment{
		Text:          "Elle sourit.",
		Interjections: []Interjection{{Sound: "ah", DurationMs: 500}},
		Environment:   Environment{Label: "bedroom", Sounds: []string{"a.mp3"}},
		Timing:        &Timing{StartTime: 1, Duration: 2},
	}

	c := orig.Clone()
	c.Interjections[0].Sound = "oh"
	c.Environment.Sounds[0] = "b.mp3"
	c.Timing.StartTime = 5

	if orig.Interjections[0].Sound != "ah" {
		t.Error("clone shares interjections")
	}
	if orig.Environment.Sounds[0] != "a.mp3" {
		t.Error("clone shares sounds")
	}
	if orig.Timing.StartTime != 1 {
		t.Error("clone shares timing")
	}
	if c.Timing.End() != 7 {
		t.Errorf("End() = %v, want 7", c.Timing.End())
	}
}
