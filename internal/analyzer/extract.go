package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"
)

// extractor pulls one candidate JSON document out of a free-form reply.
type extractor struct {
	name string
	find func(reply string) (string, bool)
}

// extractors are tried in order until a candidate decodes.
var extractors = []extractor{
	{"fenced-json", fencedJSON},
	{"fenced-any", fencedAny},
	{"brace-span", braceSpan},
	{"segments-span", segmentsSpan},
	{"bare-array", bareArray},
}

var (
	fencedJSONRe = regexp.MustCompile("(?is)```\\s*json\\s*\\n?(.*?)```")
	fencedAnyRe  = regexp.MustCompile("(?s)```([^\\n`]*)\\n?(.*?)```")
	listNumberRe = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	segmentsKey  = regexp.MustCompile(`"segments"\s*:\s*\[`)
)

// decodeReply runs the extractor list and returns the first candidate that
// decodes into a response with a segments array, and the strategy name.
func decodeReply(reply string) (*response, string, error) {
	for _, ex := range extractors {
		candidate, ok := ex.find(reply)
		if !ok {
			continue
		}
		for _, c := range variants(candidate) {
			var resp response
			if err := json.Unmarshal([]byte(c), &resp); err != nil {
				continue
			}
			if resp.Segments == nil {
				continue
			}
			return &resp, ex.name, nil
		}
	}
	return nil, "", ErrNoJSON
}

// variants yields the candidate as-is and, when it differs, with leading
// list numbering stripped from every line.
func variants(candidate string) []string {
	out := []string{candidate}
	if stripped := stripListNumbers(candidate); stripped != candidate {
		out = append(out, stripped)
	}
	return out
}

func stripListNumbers(s string) string {
	return strings.TrimSpace(listNumberRe.ReplaceAllString(s, ""))
}

func fencedJSON(reply string) (string, bool) {
	m := fencedJSONRe.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	return nonEmpty(m[1])
}

func fencedAny(reply string) (string, bool) {
	m := fencedAnyRe.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	// a fence opener may carry a language tag or, for one-line fences, the
	// content itself
	body := m[2]
	if tag := strings.TrimSpace(m[1]); strings.ContainsAny(tag, "{[") {
		body = tag + "\n" + body
	}
	return nonEmpty(body)
}

func braceSpan(reply string) (string, bool) {
	start := strings.IndexByte(reply, '{')
	if start < 0 {
		return "", false
	}
	end, ok := matchClose(reply, start, '{', '}')
	if !ok {
		return "", false
	}
	return reply[start : end+1], true
}

func segmentsSpan(reply string) (string, bool) {
	loc := segmentsKey.FindStringIndex(reply)
	if loc == nil {
		return "", false
	}
	open := loc[1] - 1
	end, ok := matchClose(reply, open, '[', ']')
	if !ok {
		return "", false
	}
	return `{"segments": ` + reply[open:end+1] + `}`, true
}

func bareArray(reply string) (string, bool) {
	start := strings.IndexByte(reply, '[')
	if start < 0 {
		return "", false
	}
	end, ok := matchClose(reply, start, '[', ']')
	if !ok {
		return "", false
	}
	return `{"segments": ` + reply[start:end+1] + `}`, true
}

// matchClose returns the index of the delimiter closing the one at start,
// skipping delimiters inside JSON strings.
func matchClose(s string, start int, open, close byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
