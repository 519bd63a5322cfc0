package analyzer

import (
	"context"
	"regexp"
	"strings"

	"github.com/dgnsrekt/murmure-go/internal/lexicon"
	"github.com/dgnsrekt/murmure-go/internal/prosody"
	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

var (
	paragraphRe   = regexp.MustCompile(`\n[ \t\r]*\n`)
	// A sentence ends at terminal punctuation followed by whitespace, so an
	// opening ellipsis stays with the words after it.
	sentenceEndRe = regexp.MustCompile(`[.!?…]+["'»”’)]*\s+`)
)

// Local segments text deterministically with the lexical classifier.
type Local struct {
	classifier   *lexicon.Classifier
	engine       *prosody.Engine
	defaultScene string
	maxWords     int
}

// NewLocal creates a local analyzer. Paragraphs longer than maxWords are
// regrouped by sentence; zero disables the split.
func NewLocal(classifier *lexicon.Classifier, t *tables.Tables, maxWords int) *Local {
	return &Local{
		classifier:   classifier,
		engine:       prosody.New(t),
		defaultScene: t.DefaultScene,
		maxWords:     maxWords,
	}
}

// Analyze splits text into paragraphs and classifies each one.
func (l *Local) Analyze(ctx context.Context, text string) ([]segment.Draft, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var drafts []segment.Draft
	for _, chunk := range l.Split(text) {
		cls, interjections := l.classifier.Analyze(chunk)
		drafts = append(drafts, l.draft(chunk, cls.Emotion, cls.Environment, interjections, segment.SourceLocal))
	}
	return drafts, nil
}

// Fallback returns one default segment spanning the whole text. It only
// returns nothing for blank input.
func (l *Local) Fallback(_ context.Context, text string) ([]segment.Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	return []segment.Draft{
		l.draft(text, segment.DefaultEmotion, l.defaultScene, nil, segment.SourceDefault),
	}, nil
}

// Split returns the paragraphs of text, each at most maxWords long when a
// sentence boundary allows it.
func (l *Local) Split(text string) []string {
	var out []string
	for _, p := range paragraphRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if l.maxWords <= 0 || len(strings.Fields(p)) <= l.maxWords {
			out = append(out, p)
			continue
		}
		out = append(out, regroup(sentences(p), l.maxWords)...)
	}
	return out
}

// sentences cuts p at sentence ends. The pieces keep their trailing
// whitespace and concatenate back to p.
func sentences(p string) []string {
	var out []string
	start := 0
	for _, m := range sentenceEndRe.FindAllStringIndex(p, -1) {
		out = append(out, p[start:m[1]])
		start = m[1]
	}
	if start < len(p) {
		out = append(out, p[start:])
	}
	return out
}

// regroup packs sentences greedily into chunks of at most maxWords words. A
// single longer sentence stays whole.
func regroup(sentences []string, maxWords int) []string {
	var (
		out   []string
		cur   strings.Builder
		words int
	)
	flush := func() {
		if chunk := strings.TrimSpace(cur.String()); chunk != "" {
			out = append(out, chunk)
		}
		cur.Reset()
		words = 0
	}
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if words > 0 && words+n > maxWords {
			flush()
		}
		cur.WriteString(s)
		words += n
	}
	flush()
	return out
}

func (l *Local) draft(text string, emotion segment.Emotion, scene string, interjections []segment.Interjection, src segment.Source) segment.Draft {
	intensity := l.engine.DefaultIntensity(emotion)
	return segment.Draft{
		Text:             text,
		Source:           src,
		Emotion:          emotion,
		Intensity:        intensity,
		Rhythm:           l.engine.Rhythm(emotion, ""),
		Breathing:        l.engine.Breathing(intensity),
		Interjections:    interjections,
		EnvironmentLabel: scene,
	}
}
