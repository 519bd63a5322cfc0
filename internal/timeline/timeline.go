// Package timeline places ordered segments on an audio timeline: estimated
// durations, fades, boundary transitions and absolute start times.
//
// Start times accumulate sequentially. A crossfade makes the next segment
// start before the current one ends, by the crossfade duration; every other
// transition starts the next segment exactly when the current one ends.
package timeline

import (
	"math"
	"strings"

	"github.com/dgnsrekt/murmure-go/internal/segment"
)

// Transition durations in seconds.
const (
	CrossfadeDuration = 1.0
	OverlapDuration   = 0.5
	CutDuration       = 0.2

	maxFade   = 1.0
	fadeRatio = 0.1
)

var wordsPerSecond = map[segment.RateCategory]float64{
	segment.RateVerySlow: 1.0,
	segment.RateSlow:     1.5,
	segment.RateModerate: 2.0,
	segment.RateFast:     2.5,
}

// WordsPerSecond returns the reading speed for a rate category. Unknown
// categories read at the moderate speed.
func WordsPerSecond(c segment.RateCategory) float64 {
	if wps, ok := wordsPerSecond[c]; ok {
		return wps
	}
	return wordsPerSecond[segment.RateModerate]
}

// EstimateDuration returns the spoken duration of text in seconds.
// Text with no words counts as one word so durations stay positive.
func EstimateDuration(text string, c segment.RateCategory) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		words = 1
	}
	return float64(words) / WordsPerSecond(c)
}

// Fade returns the fade-in and fade-out length for a segment duration.
func Fade(duration float64) float64 {
	return math.Min(maxFade, duration*fadeRatio)
}

// SelectTransition looks at the segment's own text: an ellipsis anywhere
// crossfades, terminal punctuation cuts, anything else overlaps.
func SelectTransition(text string) segment.Transition {
	if strings.Contains(text, "...") || strings.Contains(text, "…") {
		return segment.Transition{Kind: segment.Crossfade, Duration: CrossfadeDuration}
	}
	trimmed := strings.TrimRight(text, " \t\r\n\u00a0\"'»”’)")
	if strings.HasSuffix(trimmed, ".") || strings.HasSuffix(trimmed, "!") || strings.HasSuffix(trimmed, "?") {
		return segment.Transition{Kind: segment.Cut, Duration: CutDuration}
	}
	return segment.Transition{Kind: segment.Overlap, Duration: OverlapDuration}
}

// Assemble returns copies of segs with timing attached, using estimated
// durations. The input is left untouched.
func Assemble(segs []segment.Segment) []segment.Segment {
	return AssembleMeasured(segs, nil)
}

// AssembleMeasured is Assemble with known durations. durations[i], when
// present and positive, replaces the estimate for segs[i]; this is how
// timings are re-derived after synthesis, once real clip lengths are known
// and failed segments have been dropped.
//
// Normally the next segment starts at start+d-1.0 when the current one uses
// a crossfade. A crossfade longer than its segment never moves the next start
// before the current start; the two segments then share the same start.
func AssembleMeasured(segs []segment.Segment, durations []float64) []segment.Segment {
	out := make([]segment.Segment, len(segs))
	var cursor float64

	for i, s := range segs {
		d := EstimateDuration(s.Text, s.Rhythm)
		if i < len(durations) && durations[i] > 0 {
			d = durations[i]
		}
		tr := SelectTransition(s.Text)
		fade := Fade(d)

		c := s.Clone()
		c.Timing = &segment.Timing{
			StartTime:  cursor,
			Duration:   d,
			FadeIn:     fade,
			FadeOut:    fade,
			Transition: tr,
		}
		out[i] = c

		cursor += d
		if tr.Kind == segment.Crossfade && i < len(segs)-1 {
			cursor -= tr.Duration
			if cursor < c.Timing.StartTime {
				// a crossfade longer than its segment would move time backwards
				cursor = c.Timing.StartTime
			}
		}
	}

	return out
}

// Total returns the end time of the last segment to finish.
func Total(segs []segment.Segment) float64 {
	var end float64
	for _, s := range segs {
		if s.Timing != nil && s.Timing.End() > end {
			end = s.Timing.End()
		}
	}
	return end
}
