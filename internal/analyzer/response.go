package analyzer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// response mirrors the JSON document requested from the remote service.
type response struct {
	Segments []remoteSegment `json:"segments"`
}

type remoteSegment struct {
	Text            string             `json:"text"`
	Vocal           remoteVocal        `json:"vocal"`
	Expressions     remoteExpressions  `json:"expressions"`
	SynthesisParams remoteParams       `json:"synthesisParams"`
	Environment     *remoteEnvironment `json:"environment,omitempty"`
}

type remoteVocal struct {
	Intensity looseNumber `json:"intensity"`
	Type      string      `json:"type"`
	Rhythm    string      `json:"rhythm"`
	Pitch     looseString `json:"pitch"`
}

type remoteExpressions struct {
	Breathing  string      `json:"breathing"`
	Sounds     []string    `json:"sounds"`
	DurationMs looseNumber `json:"durationMs"`
}

type remoteParams struct {
	Stability      looseNumber `json:"stability"`
	Expressiveness looseNumber `json:"expressiveness"`
	RatePercent    looseString `json:"ratePercentStr"`
	PitchShift     looseString `json:"pitchShift"`
}

type remoteEnvironment struct {
	Type           string `json:"type"`
	SuggestedSound string `json:"suggestedSound"`
}

// looseNumber accepts 42, 0.6, "42", "42%" and null.
type looseNumber struct {
	Value float64
	Set   bool
}

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// unparseable values count as absent
			return nil
		}
		n.Value, n.Set = v, true
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Set = true
	return nil
}

// looseString accepts strings and bare numbers.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(b)
	return nil
}
