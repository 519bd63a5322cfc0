package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/dgnsrekt/murmure-go/internal/wav"
)

var (
	// ErrPiperNotFound is returned when the piper binary is not found.
	ErrPiperNotFound = errors.New("piper binary not found")
	// ErrNoModelSpecified is returned when no model is configured.
	ErrNoModelSpecified = errors.New("no piper model specified")
	// ErrSynthesisFailed is returned when TTS synthesis fails.
	ErrSynthesisFailed = errors.New("TTS synthesis failed")
	// ErrEmptyText is returned for blank synthesis requests.
	ErrEmptyText = errors.New("empty text")
)

// neutralRate is the rate percent Piper speaks at with length_scale 1.
const neutralRate = 20

// PiperConfig holds configuration for the Piper TTS engine.
type PiperConfig struct {
	// BinaryPath is the path to the piper executable.
	BinaryPath string
	// ModelPath is the path to the ONNX model file.
	ModelPath string
	// DefaultVoice is the default speaker id.
	DefaultVoice string
}

// PiperEngine implements the Engine interface using local Piper TTS.
type PiperEngine struct {
	config PiperConfig
	logger *slog.Logger
}

// NewPiperEngine creates a new Piper TTS engine.
func NewPiperEngine(cfg PiperConfig, logger *slog.Logger) (*PiperEngine, error) {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = "piper"
	}

	if _, err := exec.LookPath(cfg.BinaryPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPiperNotFound, cfg.BinaryPath)
	}

	if cfg.ModelPath == "" {
		return nil, ErrNoModelSpecified
	}

	return &PiperEngine{
		config: cfg,
		logger: logger,
	}, nil
}

// Name returns the engine identifier.
func (p *PiperEngine) Name() string {
	return "piper"
}

// Synthesize converts text to audio using Piper.
func (p *PiperEngine) Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	args := p.args(req)

	p.logger.Debug("running piper",
		"binary", p.config.BinaryPath,
		"args", args,
		"text_length", len(req.Text),
	)
	if req.Prosody.PitchPercent != 0 {
		p.logger.Debug("piper ignores pitch shift", "pitch_percent", req.Prosody.PitchPercent)
	}

	cmd := exec.CommandContext(ctx, p.config.BinaryPath, args...)
	cmd.Stdin = bytes.NewReader([]byte(req.Text))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Error("piper failed",
			"error", err,
			"stderr", stderr.String(),
		)
		return nil, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	raw := stdout.Bytes()
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no audio output", ErrSynthesisFailed)
	}

	p.logger.Debug("piper synthesis complete", "output_bytes", len(raw))

	return &AudioResult{
		Data:       wav.WrapRawPCM(raw, wav.PiperSampleRate, wav.PiperChannels, wav.PiperBitsPerSample),
		Format:     "wav",
		SampleRate: wav.PiperSampleRate,
		Channels:   wav.PiperChannels,
	}, nil
}

func (p *PiperEngine) args(req SynthesizeRequest) []string {
	args := []string{
		"--model", p.config.ModelPath,
		"--output-raw",
	}

	voice := req.Voice
	if voice == "" || voice == "default" {
		voice = p.config.DefaultVoice
	}
	if voice != "" && voice != "default" {
		args = append(args, "--speaker", voice)
	}

	if !req.Prosody.IsZero() {
		length, noise, noiseW := PiperScales(req.Prosody)
		args = append(args,
			"--length_scale", formatScale(length),
			"--noise_scale", formatScale(noise),
			"--noise_w", formatScale(noiseW),
		)
	}
	return args
}

// PiperScales maps prosody onto Piper's synthesis knobs. Rates above 20%
// shorten phonemes and lower stability adds sampling noise.
func PiperScales(p Prosody) (lengthScale, noiseScale, noiseW float64) {
	lengthScale = 1 - float64(p.RatePercent-neutralRate)/100
	noiseScale = 0.2 + (1-p.Stability)*0.8
	noiseW = p.Expressiveness
	if noiseW <= 0 {
		noiseW = 0.8
	}
	return lengthScale, noiseScale, noiseW
}

func formatScale(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
