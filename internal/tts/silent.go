package tts

import (
	"context"
	"strings"

	"github.com/dgnsrekt/murmure-go/internal/wav"
)

// SilentEngine produces silence as long as the text would take to speak.
// It stands in for a real voice when no Piper model is installed.
type SilentEngine struct{}

// NewSilentEngine returns a SilentEngine.
func NewSilentEngine() *SilentEngine {
	return &SilentEngine{}
}

// Name returns the engine identifier.
func (s *SilentEngine) Name() string {
	return "silent"
}

// Synthesize returns a silent WAV clip. Two words per second at the neutral
// rate, faster or slower with the requested rate.
func (s *SilentEngine) Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}

	wps := 2.0
	if !req.Prosody.IsZero() {
		length, _, _ := PiperScales(req.Prosody)
		if length > 0 {
			wps /= length
		}
	}
	seconds := float64(len(strings.Fields(req.Text))) / wps
	frames := int(seconds * wav.PiperSampleRate)

	return &AudioResult{
		Data:       wav.CreateMinimalPiper(frames),
		Format:     "wav",
		SampleRate: wav.PiperSampleRate,
		Channels:   wav.PiperChannels,
	}, nil
}
