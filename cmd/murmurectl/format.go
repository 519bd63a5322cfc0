package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/murmure-go/internal/pipeline"
	"github.com/dgnsrekt/murmure-go/internal/segment"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

var emotionColors = map[segment.Emotion]lipgloss.Color{
	segment.Whisper: "#93C5FD",
	segment.Tender:  "#F9A8D4",
	segment.Sensual: "#C084FC",
	segment.Aroused: "#FB923C",
	segment.Intense: "#F87171",
	segment.Climax:  "#EF4444",
}

// writeResult prints res in the requested format.
func writeResult(w io.Writer, format string, res *pipeline.Result) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		_, err := io.WriteString(w, renderText(res))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// renderText lays the timeline out one segment per block.
func renderText(res *pipeline.Result) string {
	var b strings.Builder

	header := fmt.Sprintf("Timeline %.2fs, %d segments, source %s", res.Duration, len(res.Segments), res.Source)
	b.WriteString(titleStyle.Render(header))
	if res.Degraded {
		b.WriteString(" " + warnStyle.Render("(degraded)"))
	}
	b.WriteString("\n\n")

	for _, s := range res.Segments {
		emotion := lipgloss.NewStyle().Bold(true).Foreground(emotionColors[s.Emotion]).Render(string(s.Emotion))
		fmt.Fprintf(&b, "%s %s %s\n",
			dimStyle.Render(fmt.Sprintf("#%d", s.Index)),
			emotion,
			dimStyle.Render(fmt.Sprintf("intensity %.0f", s.Intensity)),
		)
		fmt.Fprintf(&b, "  %s\n", truncate(s.Text, 72))
		fmt.Fprintf(&b, "  rate %s  pitch %s  stability %.2f  expressiveness %.2f\n",
			s.Params.RatePercent, s.Params.PitchPercent, s.Params.Stability, s.Params.Expressiveness)
		if s.Timing != nil {
			fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("%.2fs +%.2fs, %s %.2fs",
				s.Timing.StartTime, s.Timing.Duration, s.Timing.Transition.Kind, s.Timing.Transition.Duration)))
		}
		if s.Environment.Label != "" {
			env := s.Environment.Label
			if s.Environment.AmbientSoundID != "" {
				env += " (" + s.Environment.AmbientSoundID + ")"
			}
			fmt.Fprintf(&b, "  ambience %s\n", env)
		}
		b.WriteString("\n")
	}

	for _, warn := range res.Warnings {
		b.WriteString(warnStyle.Render("! "+warn) + "\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
