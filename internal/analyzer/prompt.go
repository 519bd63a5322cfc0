package analyzer

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

const systemPrompt = `You are a narration director. You split narrative prose into segments ` +
	`and describe how a voice actor should perform each one. ` +
	`You answer with a single JSON object and nothing else.`

const responseShape = `{
  "segments": [
    {
      "text": "exact text of the segment",
      "vocal": {"intensity": 0-100, "type": "<tier>", "rhythm": "very-slow|slow|moderate|fast", "pitch": "+0%"},
      "expressions": {"breathing": "light|deep|panting", "sounds": ["mmh"], "durationMs": 600},
      "synthesisParams": {"stability": 0.6, "expressiveness": 0.85, "ratePercentStr": "20%", "pitchShift": "-2%"},
      "environment": {"type": "bedroom", "suggestedSound": "optional"}
    }
  ]
}`

// Prompt builds the instruction payload. Bounds are rendered from the
// tables so the remote side sees the same limits the engine enforces.
type Prompt struct {
	rules string
}

// NewPrompt renders the rule block for t once.
func NewPrompt(t *tables.Tables) *Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, "Strict rules:\n")
	fmt.Fprintf(&b, "- Speech rate never exceeds %d%%.\n", tables.MaxRatePercent)
	fmt.Fprintf(&b, "- Intensity bands are monotonic: higher intensity means a higher tier.\n")
	fmt.Fprintf(&b, "- Keep every segment's text verbatim, in order, without numbering.\n")
	fmt.Fprintf(&b, "\nTiers (vocal.type), in increasing intensity:\n")
	for _, tier := range t.Tiers {
		fmt.Fprintf(&b, "- %s: intensity %g-%g, rate %d-%d%%, pitch %+d..%+d%%, stability %.2f-%.2f, expressiveness %.2f-%.2f, rhythm %s\n",
			tier.Name,
			tier.Intensity.Min, tier.Intensity.Max,
			tier.Rate.Min, tier.Rate.Max,
			tier.Pitch.Min, tier.Pitch.Max,
			tier.Stability.Min, tier.Stability.Max,
			tier.Expressiveness.Min, tier.Expressiveness.Max,
			tier.Rhythm,
		)
	}

	emotions := make([]string, 0, len(segment.Emotions))
	for _, e := range segment.Emotions {
		emotions = append(emotions, string(e))
	}
	fmt.Fprintf(&b, "\nvocal.type may also name an emotion: %s.\n", strings.Join(emotions, ", "))

	if len(t.Ambience) > 0 {
		names := make([]string, 0, len(t.Ambience))
		for _, a := range t.Ambience {
			names = append(names, a.Name)
		}
		fmt.Fprintf(&b, "environment.type should be one of: %s.\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(&b, "\nRespond with JSON shaped exactly like:\n%s\n", responseShape)

	return &Prompt{rules: b.String()}
}

// System returns the system prompt.
func (p *Prompt) System() string {
	return systemPrompt
}

// User embeds the rules and the raw text.
func (p *Prompt) User(text string) string {
	var b strings.Builder
	b.WriteString("Split the following text into performable segments.\n\n")
	b.WriteString(p.rules)
	b.WriteString("\nText:\n<<<\n")
	b.WriteString(text)
	b.WriteString("\n>>>\n")
	return b.String()
}
