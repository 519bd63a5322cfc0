// Package pipeline runs one text through analysis, parameter derivation,
// ambience mapping and timeline assembly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dgnsrekt/murmure-go/internal/ambience"
	"github.com/dgnsrekt/murmure-go/internal/analyzer"
	"github.com/dgnsrekt/murmure-go/internal/lexicon"
	"github.com/dgnsrekt/murmure-go/internal/llm"
	"github.com/dgnsrekt/murmure-go/internal/prosody"
	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
	"github.com/dgnsrekt/murmure-go/internal/timeline"
)

// ErrEmptyInput is the only fatal condition: blank text has nothing to
// narrate.
var ErrEmptyInput = errors.New("input text is empty")

// Producer names used by New.
const (
	ProducerRemote  = "remote"
	ProducerLocal   = "local"
	ProducerDefault = "default"
)

// Result is the finalized timeline for one text.
type Result struct {
	Segments []segment.Segment  `json:"segments" yaml:"segments"`
	Source   string             `json:"source" yaml:"source"`
	Degraded bool               `json:"degraded" yaml:"degraded"`
	Warnings []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Attempts []analyzer.Attempt `json:"attempts,omitempty" yaml:"attempts,omitempty"`
	Duration float64            `json:"duration" yaml:"duration"`
}

// Pipeline is safe for concurrent use once built.
type Pipeline struct {
	chain  *analyzer.Chain
	engine *prosody.Engine
	mapper *ambience.Mapper
	logger *slog.Logger
}

// Options configures New.
type Options struct {
	// Completer enables the remote tier when non-nil.
	Completer       llm.Completer
	Remote          analyzer.RemoteConfig
	MaxSegmentWords int
}

// New wires the standard chain (remote, local, default) over t.
func New(t *tables.Tables, opts Options, logger *slog.Logger) (*Pipeline, error) {
	classifier, err := lexicon.New(t)
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	local := analyzer.NewLocal(classifier, t, opts.MaxSegmentWords)
	producers := []analyzer.Producer{}
	if opts.Completer != nil {
		remote := analyzer.NewRemote(opts.Completer, t, opts.Remote, logger)
		producers = append(producers, analyzer.Producer{Name: ProducerRemote, Produce: remote.Analyze})
	}
	producers = append(producers,
		analyzer.Producer{Name: ProducerLocal, Produce: local.Analyze},
		analyzer.Producer{Name: ProducerDefault, Produce: local.Fallback},
	)

	return NewWithChain(analyzer.NewChain(logger, producers...), t, logger), nil
}

// NewWithChain builds a pipeline around a custom producer chain.
func NewWithChain(chain *analyzer.Chain, t *tables.Tables, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		chain:  chain,
		engine: prosody.New(t),
		mapper: ambience.New(t),
		logger: logger,
	}
}

// Producers returns the producer names in the order they are tried.
func (p *Pipeline) Producers() []string {
	return p.chain.Names()
}

// Run analyzes text and returns the finalized timeline. Every recoverable
// condition is logged and listed in Result.Warnings.
func (p *Pipeline) Run(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	outcome, err := p.chain.Run(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("analyze text: %w", err)
	}

	res := &Result{
		Source:   outcome.Producer,
		Degraded: outcome.Degraded(),
		Attempts: outcome.Attempts,
	}
	for _, a := range outcome.Attempts {
		if a.Error != "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %s", a.Producer, a.Error))
		}
	}

	segs := p.Finalize(outcome.Drafts, &res.Warnings)
	res.Segments = timeline.Assemble(segs)
	res.Duration = timeline.Total(res.Segments)

	p.logger.Info("narration analyzed",
		"source", res.Source,
		"segments", len(res.Segments),
		"degraded", res.Degraded,
		"duration_s", res.Duration,
	)
	return res, nil
}

// Finalize turns drafts into segments without timing: parameters are
// derived or reconciled, emotion shifts recorded and ambience resolved.
// Recovered conditions are appended to warnings when it is non-nil.
func (p *Pipeline) Finalize(drafts []segment.Draft, warnings *[]string) []segment.Segment {
	n := len(drafts)
	segs := make([]segment.Segment, 0, n)

	for i, d := range drafts {
		progression := 0.0
		if n > 1 {
			progression = float64(i) / float64(n-1)
		}

		s := segment.Segment{
			Index:             i,
			Text:              d.Text,
			Source:            d.Source,
			Emotion:           d.Emotion,
			Intensity:         d.Intensity,
			VocalType:         d.VocalType,
			Rhythm:            d.Rhythm,
			PitchShiftPercent: d.PitchShiftPercent,
			Breathing:         d.Breathing,
			Interjections:     d.Interjections,
		}
		if !s.Emotion.Valid() {
			p.warn(warnings, i, &segment.UnknownCategoryError{Kind: "emotion", Value: string(s.Emotion)})
			s.Emotion = segment.DefaultEmotion
		}
		if s.Rhythm == "" {
			s.Rhythm = p.engine.Rhythm(s.Emotion, s.VocalType)
		}
		if s.Breathing == "" {
			s.Breathing = p.engine.Breathing(s.Intensity)
		}

		s.Params = p.engine.Reconcile(s.Emotion, s.VocalType, s.Intensity, progression, d.Suggested)
		if i > 0 {
			s.EmotionShiftMs = p.engine.TransitionDuration(segs[i-1].Emotion, s.Emotion)
		}

		s.Environment = p.environment(d, i, warnings)

		for _, w := range d.Warnings {
			p.appendWarning(warnings, i, w)
		}
		segs = append(segs, s)
	}
	return segs
}

func (p *Pipeline) environment(d segment.Draft, i int, warnings *[]string) segment.Environment {
	env := p.mapper.Resolve(d.EnvironmentLabel)
	if d.EnvironmentLabel != "" && !p.mapper.Known(d.EnvironmentLabel) {
		p.warn(warnings, i, &segment.UnknownCategoryError{Kind: "environment", Value: d.EnvironmentLabel})
	}
	if d.SuggestedSound != "" {
		if slices.Contains(env.Sounds, d.SuggestedSound) {
			env.AmbientSoundID = d.SuggestedSound
		} else {
			p.logger.Debug("ignoring suggested sound outside catalog entry",
				"index", i, "sound", d.SuggestedSound, "environment", env.Label)
		}
	}
	return env
}

func (p *Pipeline) warn(warnings *[]string, i int, err error) {
	p.logger.Warn("recovered segment issue", "index", i, "error", err)
	p.appendWarning(warnings, i, err.Error())
}

func (p *Pipeline) appendWarning(warnings *[]string, i int, msg string) {
	if warnings != nil {
		*warnings = append(*warnings, fmt.Sprintf("segment %d: %s", i, msg))
	}
}
