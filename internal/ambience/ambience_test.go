package ambience

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/murmure-go/internal/tables"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plage ensoleillée", "plage_ensoleillee"},
		{"  Forêt   Profonde ", "foret_profonde"},
		{"CHAMBRE", "chambre"},
		{"", ""},
		{"ça   va", "ca_va"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestMap_AccentedMixedCase(t *testing.T) {
	m := New(tables.Default())
	got := m.Map("Plage ensoleillée")
	assert.Equal(t, []string{"ambience/plage_vagues.mp3", "ambience/plage_mouettes.mp3"}, got)
}

func TestMap_Bidirectional(t *testing.T) {
	m := New(tables.Default())

	// input contains the key
	assert.Equal(t, "ambience/foret_oiseaux.mp3", m.Map("la forêt sombre")[0])
	// input is contained by the key
	assert.Equal(t, "ambience/plage_vagues.mp3", m.Map("plag")[0])
	// classifier labels map through their english keys
	assert.Equal(t, "ambience/pluie_fenetre.mp3", m.Map("rain")[0])
	assert.Equal(t, "ambience/chambre_calme.mp3", m.Map("bedroom")[0])
}

func TestMap_FirstEntryWins(t *testing.T) {
	m := New(tables.Default())
	// matches both plage and ville; plage comes first in the catalog
	assert.Equal(t, "ambience/plage_vagues.mp3", m.Map("ville_plage")[0])
}

func TestMap_DefaultNeverEmpty(t *testing.T) {
	m := New(tables.Default())
	for _, in := range []string{"", "   ", "volcan", "désert"} {
		got := m.Map(in)
		require.NotEmpty(t, got, in)
		assert.Equal(t, "ambience/chambre_calme.mp3", got[0], in)
	}
	assert.False(t, m.Known("volcan"))
	assert.True(t, m.Known("Plage"))
}

func TestMap_IsPure(t *testing.T) {
	m := New(tables.Default())
	first := m.Map("Sous la pluie")
	first[0] = "mutated"
	assert.Equal(t, "ambience/pluie_fenetre.mp3", m.Map("Sous la pluie")[0])
}

func TestMap_EmptyCatalog(t *testing.T) {
	tb := tables.Default()
	tb.Ambience = nil
	m := New(tb)
	assert.Equal(t, []string{"ambience/default.mp3"}, m.Map("plage"))
}

func TestResolve(t *testing.T) {
	m := New(tables.Default())

	env := m.Resolve("beach")
	assert.Equal(t, "beach", env.Label)
	assert.Equal(t, "ambience/plage_vagues.mp3", env.AmbientSoundID)
	assert.Len(t, env.Sounds, 2)

	env = m.Resolve("")
	assert.Equal(t, "chambre", env.Label)
	assert.Equal(t, "ambience/chambre_calme.mp3", env.AmbientSoundID)
}
