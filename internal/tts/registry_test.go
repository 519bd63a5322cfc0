package tts

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

// mockEngine is a test implementation of Engine.
type mockEngine struct {
	name string
}

func (m *mockEngine) Name() string {
	return m.name
}

func (m *mockEngine) Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error) {
	return &AudioResult{Data: []byte("mock audio"), Format: "wav", SampleRate: 22050, Channels: 1}, nil
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register(NewSilentEngine()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := reg.Register(NewSilentEngine()); !errors.Is(err, ErrEngineExists) {
		t.Errorf("expected ErrEngineExists, got %v", err)
	}

	got, err := reg.Get("silent")
	if err != nil {
		t.Fatalf("failed to get engine: %v", err)
	}
	if got.Name() != "silent" {
		t.Errorf("expected name 'silent', got '%s'", got.Name())
	}

	if _, err := reg.Get("nonexistent"); !errors.Is(err, ErrEngineNotFound) {
		t.Errorf("expected ErrEngineNotFound, got %v", err)
	}
}

func TestRegistry_Default(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Default(); !errors.Is(err, ErrEngineNotFound) {
		t.Errorf("expected ErrEngineNotFound for empty registry, got %v", err)
	}

	reg.Register(&mockEngine{name: "first"})
	reg.Register(&mockEngine{name: "second"})

	def, err := reg.Default()
	if err != nil {
		t.Fatalf("failed to get default: %v", err)
	}
	if def.Name() != "first" {
		t.Errorf("expected default 'first', got '%s'", def.Name())
	}

	if err := reg.SetDefault("second"); err != nil {
		t.Fatalf("failed to set default: %v", err)
	}
	def, _ = reg.Default()
	if def.Name() != "second" {
		t.Errorf("expected default 'second', got '%s'", def.Name())
	}

	if err := reg.SetDefault("nonexistent"); !errors.Is(err, ErrEngineNotFound) {
		t.Errorf("expected ErrEngineNotFound, got %v", err)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockEngine{name: "piper"})
	reg.Register(NewSilentEngine())

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "piper", false},
		{"silent", "silent", false},
		{"elevenlabs", "", true},
	}
	for _, tt := range tests {
		e, err := reg.Resolve(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrEngineNotFound) {
				t.Errorf("Resolve(%q) error = %v, want ErrEngineNotFound", tt.name, err)
			}
			continue
		}
		if err != nil || e.Name() != tt.want {
			t.Errorf("Resolve(%q) = %v, %v; want %s", tt.name, e, err, tt.want)
		}
	}
}

func TestRegistry_List(t *testing.T) {
	reg := NewRegistry()

	if names := reg.List(); len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}

	reg.Register(&mockEngine{name: "gamma"})
	reg.Register(&mockEngine{name: "alpha"})
	reg.Register(&mockEngine{name: "beta"})

	if names := reg.List(); !slices.Equal(names, []string{"alpha", "beta", "gamma"}) {
		t.Errorf("List() = %v, want sorted names", names)
	}
}

func TestRegistry_ErrorsNameTheEngine(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockEngine{name: "piper"})

	err := reg.Register(&mockEngine{name: "piper"})
	if !errors.Is(err, ErrEngineExists) || !strings.Contains(err.Error(), "piper") {
		t.Errorf("Register duplicate error = %v, want ErrEngineExists naming piper", err)
	}

	_, err = reg.Resolve("elevenlabs")
	if !errors.Is(err, ErrEngineNotFound) || !strings.Contains(err.Error(), "elevenlabs") {
		t.Errorf("Resolve error = %v, want ErrEngineNotFound naming elevenlabs", err)
	}
}

func TestRegistry_ResolveFollowsSetDefault(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&mockEngine{name: "piper"})
	reg.Register(NewSilentEngine())

	if err := reg.SetDefault("silent"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	e, err := reg.Resolve("")
	if err != nil || e.Name() != "silent" {
		t.Errorf("Resolve(\"\") = %v, %v; want silent", e, err)
	}
}
