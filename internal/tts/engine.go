package tts

import (
	"bytes"
	"context"
	"io"

	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/wav"
)

// Prosody carries the bounded delivery parameters of one segment.
type Prosody struct {
	RatePercent    int
	PitchPercent   int
	Stability      float64
	Expressiveness float64
}

// ProsodyFrom converts derived segment parameters.
func ProsodyFrom(p segment.SynthesisParams) Prosody {
	return Prosody{
		RatePercent:    p.Rate,
		PitchPercent:   p.Pitch,
		Stability:      p.Stability,
		Expressiveness: p.Expressiveness,
	}
}

// IsZero reports whether no prosody was requested.
func (p Prosody) IsZero() bool {
	return p == Prosody{}
}

// SynthesizeRequest contains parameters for TTS synthesis.
type SynthesizeRequest struct {
	Text    string
	Voice   string
	Prosody Prosody
}

// AudioResult represents synthesized audio output.
type AudioResult struct {
	// Data contains the audio bytes (WAV format).
	Data       []byte
	Format     string
	SampleRate int
	Channels   int
}

// Reader returns an io.Reader for the audio data.
func (a *AudioResult) Reader() io.Reader {
	return bytes.NewReader(a.Data)
}

// Duration measures the clip from its WAV header.
func (a *AudioResult) Duration() (float64, error) {
	return wav.Duration(a.Data)
}

// Engine is the interface for text-to-speech synthesis.
type Engine interface {
	// Synthesize converts text to audio.
	Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error)
	// Name returns the engine identifier.
	Name() string
}
