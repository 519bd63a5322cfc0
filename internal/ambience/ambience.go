// Package ambience maps a scene label onto ambient sound identifiers.
package ambience

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/murmure-go/internal/segment"
	"github.com/dgnsrekt/murmure-go/internal/tables"
)

type entry struct {
	name   string
	keys   []string
	sounds []string
}

// Mapper resolves scene labels against a fixed catalog. It never fails and
// never returns an empty list.
type Mapper struct {
	entries []entry
	def     entry
}

// New builds a mapper from the ambience catalog in t. Keys are normalized
// once here so lookups compare like with like.
func New(t *tables.Tables) *Mapper {
	m := &Mapper{}
	for _, e := range t.Ambience {
		keys := make([]string, 0, len(e.Keys))
		for _, k := range e.Keys {
			if nk := Normalize(k); nk != "" {
				keys = append(keys, nk)
			}
		}
		m.entries = append(m.entries, entry{
			name:   e.Name,
			keys:   keys,
			sounds: append([]string(nil), e.Sounds...),
		})
	}

	if d, ok := t.AmbienceEntry(t.DefaultAmbience); ok && len(d.Sounds) > 0 {
		m.def = entry{name: d.Name, sounds: append([]string(nil), d.Sounds...)}
	} else if len(m.entries) > 0 && len(m.entries[0].sounds) > 0 {
		m.def = m.entries[0]
	} else {
		m.def = entry{name: "default", sounds: []string{"ambience/default.mp3"}}
	}
	return m
}

// Map returns the sound ids for label. The first catalog entry whose key
// contains the normalized label, or is contained by it, wins.
func (m *Mapper) Map(label string) []string {
	return append([]string(nil), m.lookup(label).sounds...)
}

// Resolve returns a full environment: the label as given (or the default
// entry name), the primary sound and the whole list.
func (m *Mapper) Resolve(label string) segment.Environment {
	e := m.lookup(label)
	name := strings.TrimSpace(label)
	if name == "" {
		name = e.name
	}
	return segment.Environment{
		Label:          name,
		AmbientSoundID: e.sounds[0],
		Sounds:         append([]string(nil), e.sounds...),
	}
}

// Known reports whether label matched a catalog entry rather than the
// default fallback.
func (m *Mapper) Known(label string) bool {
	_, ok := m.match(Normalize(label))
	return ok
}

func (m *Mapper) lookup(label string) entry {
	if e, ok := m.match(Normalize(label)); ok {
		return e
	}
	return m.def
}

func (m *Mapper) match(norm string) (entry, bool) {
	if norm == "" {
		return entry{}, false
	}
	for _, e := range m.entries {
		for _, k := range e.keys {
			if strings.Contains(norm, k) || strings.Contains(k, norm) {
				if len(e.sounds) == 0 {
					continue
				}
				return e, true
			}
		}
	}
	return entry{}, false
}

// Normalize lowercases s, strips diacritics and joins words with
// underscores: "Plage ensoleillée" becomes "plage_ensoleillee".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), "_")
}
