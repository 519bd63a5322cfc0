// Package lexicon classifies raw text with keyword cues when no remote
// analysis is available: an emotion label, a scene label and the
// non-lexical vocalizations the text contains.
package lexicon

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

// Classification is the result of the keyword passes.
type Classification struct {
	Emotion     segment.Emotion
	Environment string
}

type cue struct {
	label string
	words []string
}

type interjection struct {
	sound     string
	re        *regexp.Regexp
	minLen    int
	baseMs    int
	perCharMs int
}

// Classifier is safe for concurrent use; it holds no mutable state.
type Classifier struct {
	emotionCues   []cue
	sceneCues     []cue
	defaultScene  string
	interjections []interjection
}

// New compiles a classifier from the given tables.
func New(t *tables.Tables) (*Classifier, error) {
	c := &Classifier{defaultScene: t.DefaultScene}

	for _, cu := range t.EmotionCues {
		c.emotionCues = append(c.emotionCues, lowerCue(cu))
	}
	for _, cu := range t.SceneCues {
		c.sceneCues = append(c.sceneCues, lowerCue(cu))
	}

	for _, p := range t.Interjections {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile interjection %q: %w", p.Sound, err)
		}
		c.interjections = append(c.interjections, interjection{
			sound:     p.Sound,
			re:        re,
			minLen:    p.MinLen,
			baseMs:    p.BaseMs,
			perCharMs: p.PerCharMs,
		})
	}

	return c, nil
}

func lowerCue(cu tables.Cue) cue {
	words := make([]string, 0, len(cu.Words))
	for _, w := range cu.Words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return cue{label: cu.Label, words: words}
}

// Classify runs the emotion and scene passes. Empty text yields the
// defaults.
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)

	out := Classification{
		Emotion:     segment.DefaultEmotion,
		Environment: c.defaultScene,
	}

	if label, ok := firstMatch(c.emotionCues, lower); ok {
		// cue labels come from tables; anything outside the closed set
		// degrades to the default emotion
		if e, err := segment.ParseEmotion(label); err == nil {
			out.Emotion = e
		}
	}
	if label, ok := firstMatch(c.sceneCues, lower); ok {
		out.Environment = label
	}

	return out
}

func firstMatch(cues []cue, lower string) (string, bool) {
	if lower == "" {
		return "", false
	}
	for _, cu := range cues {
		for _, w := range cu.words {
			if strings.Contains(lower, w) {
				return cu.label, true
			}
		}
	}
	return "", false
}

// Interjections returns one entry per pattern present in text, in pattern
// order. The first occurrence of each pattern is reported and its duration
// grows with elongation.
func (c *Classifier) Interjections(text string) []segment.Interjection {
	var out []segment.Interjection
	for _, ij := range c.interjections {
		m := ij.re.FindString(text)
		if m == "" {
			continue
		}
		extra := utf8.RuneCountInString(m) - ij.minLen
		if extra < 0 {
			extra = 0
		}
		out = append(out, segment.Interjection{
			Sound:      strings.ToLower(m),
			DurationMs: ij.baseMs + extra*ij.perCharMs,
		})
	}
	return out
}

// Analyze combines Classify and Interjections.
func (c *Classifier) Analyze(text string) (Classification, []segment.Interjection) {
	return c.Classify(text), c.Interjections(text)
}
