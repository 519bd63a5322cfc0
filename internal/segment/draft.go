package segment

// Suggested holds synthesis values proposed by an upstream analyzer.
// Zero values mean "not provided".
type Suggested struct {
	Stability      float64
	Expressiveness float64
	RatePercent    string
	PitchShift     string
}

// Draft is a segment as produced by an analyzer, before parameter
// derivation, ambience mapping and timing.
type Draft struct {
	Text              string
	Source            Source
	Emotion           Emotion
	Intensity         float64
	VocalType         string
	Rhythm            RateCategory
	PitchShiftPercent float64
	Breathing         Breathing
	Interjections     []Interjection
	EnvironmentLabel  string
	SuggestedSound    string
	Suggested         Suggested

	// Warnings lists recoverable conditions met while producing the draft.
	Warnings []string
}
