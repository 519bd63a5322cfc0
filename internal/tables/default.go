package tables

import "github.com/dgnsrekt/murmure-go/internal/segment"

// Tier names.
const (
	TierWhisper = "whisper"
	TierSensual = "sensual"
	TierAroused = "aroused"
	TierClimax  = "climax"
)

// Default returns the built-in tables. Each call returns a fresh value.
func Default() *Tables {
	return &Tables{
		Emotions: map[segment.Emotion]EmotionProfile{
			segment.Whisper: {Stability: 0.70, Expressiveness: 0.80, Tier: TierWhisper, Intensity: 20},
			segment.Tender:  {Stability: 0.68, Expressiveness: 0.78, Tier: TierSensual, Intensity: 30},
			segment.Sensual: {Stability: 0.60, Expressiveness: 0.82, Tier: TierSensual, Intensity: 40},
			segment.Aroused: {Stability: 0.48, Expressiveness: 0.86, Tier: TierAroused, Intensity: 65},
			segment.Intense: {Stability: 0.40, Expressiveness: 0.88, Tier: TierAroused, Intensity: 75},
			segment.Climax:  {Stability: 0.30, Expressiveness: 0.92, Tier: TierClimax, Intensity: 95},
		},

		Tiers: []Tier{
			{
				Name:           TierWhisper,
				Rate:           IntRange{Min: 10, Max: 22},
				Pitch:          IntRange{Min: -8, Max: -3},
				Rhythm:         segment.RateVerySlow,
				Intensity:      FloatRange{Min: 0, Max: 25},
				Stability:      FloatRange{Min: 0.65, Max: 0.75},
				Expressiveness: FloatRange{Min: 0.75, Max: 0.85},
			},
			{
				Name:           TierSensual,
				Rate:           IntRange{Min: 15, Max: 25},
				Pitch:          IntRange{Min: -5, Max: 0},
				Rhythm:         segment.RateSlow,
				Intensity:      FloatRange{Min: 25, Max: 50},
				Stability:      FloatRange{Min: 0.50, Max: 0.70},
				Expressiveness: FloatRange{Min: 0.80, Max: 0.90},
			},
			{
				Name:           TierAroused,
				Rate:           IntRange{Min: 20, Max: 30},
				Pitch:          IntRange{Min: 0, Max: 5},
				Rhythm:         segment.RateModerate,
				Intensity:      FloatRange{Min: 50, Max: 80},
				Stability:      FloatRange{Min: 0.35, Max: 0.55},
				Expressiveness: FloatRange{Min: 0.85, Max: 0.95},
			},
			{
				Name:           TierClimax,
				Rate:           IntRange{Min: 28, Max: 35},
				Pitch:          IntRange{Min: 3, Max: 8},
				Rhythm:         segment.RateFast,
				Intensity:      FloatRange{Min: 80, Max: 100},
				Stability:      FloatRange{Min: 0.15, Max: 0.40},
				Expressiveness: FloatRange{Min: 0.90, Max: 0.98},
			},
		},
		DefaultTier: TierSensual,

		Transitions: map[segment.Emotion]map[segment.Emotion]int{
			segment.Whisper: {segment.Sensual: 800, segment.Tender: 600, segment.Aroused: 700},
			segment.Tender:  {segment.Sensual: 700, segment.Whisper: 600, segment.Aroused: 800},
			segment.Sensual: {segment.Aroused: 600, segment.Whisper: 700, segment.Tender: 650},
			segment.Aroused: {segment.Intense: 400, segment.Climax: 300, segment.Whisper: 900},
			segment.Intense: {segment.Climax: 250, segment.Tender: 1000, segment.Aroused: 450},
			segment.Climax:  {segment.Tender: 1500, segment.Whisper: 1200, segment.Sensual: 1000},
		},
		DefaultTransitionMs: 500,

		// Priority order matters: the first cue whose keyword matches wins.
		EmotionCues: []Cue{
			{Label: string(segment.Climax), Words: []string{"jouis", "orgasme", "extase", "explose", "climax", "ecstasy"}},
			{Label: string(segment.Aroused), Words: []string{"gémi", "gemi", "halète", "haletant", "désir", "excit", "moan", "aroused"}},
			{Label: string(segment.Intense), Words: []string{"intense", "passion", "brûlant", "fougueu", "sauvage", "fierce"}},
			{Label: string(segment.Whisper), Words: []string{"murmur", "chuchot", "à l'oreille", "whisper"}},
			{Label: string(segment.Tender), Words: []string{"doucement", "tendre", "tendresse", "caresse", "câlin", "gentle", "tender"}},
			{Label: string(segment.Sensual), Words: []string{"sensuel", "sensuelle", "peau", "lèvres", "baiser", "sensual", "kiss"}},
		},

		SceneCues: []Cue{
			{Label: "beach", Words: []string{"plage", "le sable", "du sable", "vagues", "océan", "beach", "the sand", "sandy", "waves"}},
			{Label: "forest", Words: []string{"forêt", "foret", "arbres", "sous-bois", "forest", "woods"}},
			{Label: "rain", Words: []string{"pluie", "orage", "averse", "raining", "rainy", "storm"}},
			{Label: "city", Words: []string{"ville", "dans la rue", "trottoir", "city", "street"}},
		},
		DefaultScene: "bedroom",

		Interjections: []InterjectionPattern{
			{Sound: "mh", Pattern: `(?i)\bm+h+m*\b`, MinLen: 2, BaseMs: 600, PerCharMs: 80},
			{Sound: "ah", Pattern: `(?i)\ba+h+\b`, MinLen: 2, BaseMs: 400, PerCharMs: 80},
			{Sound: "oh", Pattern: `(?i)\bo+h+\b`, MinLen: 2, BaseMs: 400, PerCharMs: 80},
			{Sound: "ha", Pattern: `(?i)\b(?:ha){2,}h*\b`, MinLen: 4, BaseMs: 700, PerCharMs: 60},
			{Sound: "oui", Pattern: `(?i)\bou+i+\b`, MinLen: 3, BaseMs: 500, PerCharMs: 80},
		},

		Ambience: []AmbienceEntry{
			{Name: "plage", Keys: []string{"plage", "beach"}, Sounds: []string{"ambience/plage_vagues.mp3", "ambience/plage_mouettes.mp3"}},
			{Name: "foret", Keys: []string{"foret", "forest"}, Sounds: []string{"ambience/foret_oiseaux.mp3", "ambience/foret_vent.mp3"}},
			{Name: "pluie", Keys: []string{"pluie", "rain", "orage", "storm"}, Sounds: []string{"ambience/pluie_fenetre.mp3", "ambience/pluie_tonnerre.mp3"}},
			{Name: "ville", Keys: []string{"ville", "city", "street"}, Sounds: []string{"ambience/ville_nuit.mp3", "ambience/ville_circulation.mp3"}},
			{Name: "douche", Keys: []string{"douche", "shower"}, Sounds: []string{"ambience/douche_eau.mp3"}},
			{Name: "chambre", Keys: []string{"chambre", "bedroom"}, Sounds: []string{"ambience/chambre_calme.mp3", "ambience/chambre_draps.mp3"}},
		},
		DefaultAmbience: "chambre",
	}
}
