package topology

import (
	"errors"
	"strings"
	"testing"
)

func TestSettings_Resolve(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "derives elements and links",
			in:   Settings{Nodes: 10},
			want: Settings{Nodes: 10, Elements: 10, Links: 45, Topology: TopologyRandom},
		},
		{
			name: "derives links from explicit elements",
			in:   Settings{Nodes: 10, Elements: 4},
			want: Settings{Nodes: 10, Elements: 4, Links: 6, Topology: TopologyRandom},
		},
		{
			name: "keeps explicit values",
			in:   Settings{Nodes: 2028, Elements: 1844, Links: 35717, Topology: "random", Seed: 7},
			want: Settings{Nodes: 2028, Elements: 1844, Links: 35717, Topology: "random", Seed: 7},
		},
		{
			name: "no links derived below two elements",
			in:   Settings{Nodes: 1},
			want: Settings{Nodes: 1, Elements: 1, Links: 0, Topology: TopologyRandom},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Resolve(); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	valid := Settings{Nodes: 10, Elements: 5, Links: 3, Topology: TopologyRandom}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{"valid", func(s *Settings) {}, ""},
		{"elements equal nodes", func(s *Settings) { s.Elements = 10 }, ""},
		{"too few nodes", func(s *Settings) { s.Nodes = 1; s.Elements = 1 }, "at least 2 nodes"},
		{"too few elements", func(s *Settings) { s.Elements = 1 }, "at least 2 elements"},
		{"more elements than nodes", func(s *Settings) { s.Elements = 11 }, "at least as many nodes as elements"},
		{"no links", func(s *Settings) { s.Links = 0 }, "at least 1 link"},
		{"negative links", func(s *Settings) { s.Links = -4 }, "at least 1 link"},
		{"unknown topology", func(s *Settings) { s.Topology = "invalid topology" }, "unknown topology"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Expected ErrConfiguration, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error to mention %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestSettings_ValidateReportsEveryProblem(t *testing.T) {
	err := Settings{Nodes: 0, Elements: 0, Links: 0, Topology: "ring"}.Validate()

	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("Expected *ConfigurationError, got %T", err)
	}
	if len(cerr.Problems) != 4 {
		t.Errorf("Expected 4 problems, got %d: %v", len(cerr.Problems), cerr.Problems)
	}
}
