package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgnsrekt/murmure-go/internal/llm"
	"github.com/dgnsrekt/murmure-go/internal/prosody"
	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

// minSegmentText is the shortest cleaned text accepted as a segment.
const minSegmentText = 3

// defaultInterjectionMs is used when the reply lists sounds without a
// duration.
const defaultInterjectionMs = 500

var (
	leadingEnumRe  = regexp.MustCompile(`^\s*(?:(?:\d+\s*[.):\]-]|[-*•])(?:\s+|$))+`)
	trailingEnumRe = regexp.MustCompile(`(?:\s*\n\s*(?:\d+\s*[.)]?|[-*•]))+\s*$`)
)

// RemoteConfig tunes the completion request.
type RemoteConfig struct {
	MaxTokens   int
	Temperature float64
}

// Remote asks a completion service to segment and annotate text.
type Remote struct {
	completer llm.Completer
	engine    *prosody.Engine
	prompt    *Prompt
	cfg       RemoteConfig
	logger    *slog.Logger
}

// NewRemote creates a remote analyzer. A nil completer makes every call fail
// with ErrNoCompleter.
func NewRemote(completer llm.Completer, t *tables.Tables, cfg RemoteConfig, logger *slog.Logger) *Remote {
	return &Remote{
		completer: completer,
		engine:    prosody.New(t),
		prompt:    NewPrompt(t),
		cfg:       cfg,
		logger:    logger,
	}
}

// Analyze performs one round trip and maps the reply into drafts. Every
// failure is a *RemoteAnalysisError.
func (r *Remote) Analyze(ctx context.Context, text string) ([]segment.Draft, error) {
	if r.completer == nil {
		return nil, &RemoteAnalysisError{Reason: ReasonRequest, Err: ErrNoCompleter}
	}

	reply, err := r.completer.Complete(ctx, llm.Request{
		SystemPrompt: r.prompt.System(),
		UserPrompt:   r.prompt.User(text),
		MaxTokens:    r.cfg.MaxTokens,
		Temperature:  r.cfg.Temperature,
	})
	if err != nil {
		var se *llm.StatusError
		if errors.As(err, &se) {
			return nil, &RemoteAnalysisError{Reason: ReasonStatus, Err: err}
		}
		return nil, &RemoteAnalysisError{Reason: ReasonRequest, Err: err}
	}

	resp, strategy, err := decodeReply(reply)
	if err != nil {
		return nil, &RemoteAnalysisError{Reason: ReasonInvalidFormat, Err: err}
	}
	r.logger.Debug("remote reply decoded",
		"provider", r.completer.Name(),
		"strategy", strategy,
		"segments", len(resp.Segments),
	)

	drafts := r.mapSegments(resp.Segments)
	if len(drafts) == 0 {
		return nil, &RemoteAnalysisError{Reason: ReasonEmpty}
	}
	return drafts, nil
}

func (r *Remote) mapSegments(segs []remoteSegment) []segment.Draft {
	drafts := make([]segment.Draft, 0, len(segs))
	for i, rs := range segs {
		if strings.TrimSpace(rs.Text) == "" {
			r.logger.Warn("dropping empty remote segment", "index", i)
			continue
		}
		drafts = append(drafts, r.mapSegment(i, rs))
	}
	return drafts
}

func (r *Remote) mapSegment(i int, rs remoteSegment) segment.Draft {
	d := segment.Draft{
		Source:    segment.SourceRemote,
		VocalType: strings.TrimSpace(rs.Vocal.Type),
	}

	text, err := CleanText(i, rs.Text)
	if err != nil {
		r.warn(&d, err)
	}
	d.Text = text

	d.Emotion = r.emotionFor(&d, d.VocalType)

	if rs.Vocal.Intensity.Set {
		d.Intensity = clamp(rs.Vocal.Intensity.Value, 0, 100)
	} else {
		d.Intensity = r.engine.DefaultIntensity(d.Emotion)
	}

	if rc, ok := segment.ParseRateCategory(rs.Vocal.Rhythm); ok {
		d.Rhythm = rc
	} else {
		if rs.Vocal.Rhythm != "" {
			r.warn(&d, &segment.UnknownCategoryError{Kind: "rhythm", Value: rs.Vocal.Rhythm})
		}
		d.Rhythm = r.engine.Rhythm(d.Emotion, d.VocalType)
	}

	if pitch, ok := prosody.ParsePercent(string(rs.Vocal.Pitch)); ok {
		d.PitchShiftPercent = float64(pitch)
	}

	if b, ok := segment.ParseBreathing(rs.Expressions.Breathing); ok {
		d.Breathing = b
	} else {
		d.Breathing = r.engine.Breathing(d.Intensity)
	}

	durationMs := defaultInterjectionMs
	if rs.Expressions.DurationMs.Set && rs.Expressions.DurationMs.Value > 0 {
		durationMs = int(rs.Expressions.DurationMs.Value)
	}
	for _, s := range rs.Expressions.Sounds {
		if s = strings.TrimSpace(s); s != "" {
			d.Interjections = append(d.Interjections, segment.Interjection{Sound: s, DurationMs: durationMs})
		}
	}

	if rs.Environment != nil {
		d.EnvironmentLabel = strings.TrimSpace(rs.Environment.Type)
		d.SuggestedSound = strings.TrimSpace(rs.Environment.SuggestedSound)
	}

	d.Suggested = segment.Suggested{
		Stability:      rs.SynthesisParams.Stability.Value,
		Expressiveness: rs.SynthesisParams.Expressiveness.Value,
		RatePercent:    string(rs.SynthesisParams.RatePercent),
		PitchShift:     string(rs.SynthesisParams.PitchShift),
	}
	if d.Suggested.PitchShift == "" && rs.Vocal.Pitch != "" {
		d.Suggested.PitchShift = string(rs.Vocal.Pitch)
	}

	return d
}

// emotionFor reads the emotion from the vocal type. Tier names map onto the
// emotion of the same name; anything else degrades to the default.
func (r *Remote) emotionFor(d *segment.Draft, vocalType string) segment.Emotion {
	if vocalType == "" {
		return segment.DefaultEmotion
	}
	e, err := segment.ParseEmotion(vocalType)
	if err != nil {
		r.warn(d, err)
		return segment.DefaultEmotion
	}
	return e
}

func (r *Remote) warn(d *segment.Draft, err error) {
	r.logger.Warn("recovered remote segment issue", "error", err)
	d.Warnings = append(d.Warnings, err.Error())
}

// CleanText strips enumeration artifacts from both ends of a segment. When
// too little text survives, the original is returned together with a
// *MalformedSegmentError.
func CleanText(index int, text string) (string, error) {
	cleaned := leadingEnumRe.ReplaceAllString(text, "")
	cleaned = trailingEnumRe.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if utf8.RuneCountInString(cleaned) < minSegmentText {
		return text, &MalformedSegmentError{Index: index, Original: text, Cleaned: cleaned}
	}
	return cleaned, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
