package domain

import "testing"

func TestLevelFor(t *testing.T) {
	tests := []struct {
		experience int
		want       int
	}{
		{0, 1},
		{999, 1},
		{1000, 2},
		{1010, 2},
		{2500, 3},
		{-10, 1},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.experience, 1000); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.experience, got, tt.want)
		}
	}
}

func TestLevelFor_DefaultBand(t *testing.T) {
	if got := LevelFor(1500, 0); got != 2 {
		t.Errorf("Expected default band of %d XP, got level %d", DefaultLevelSize, got)
	}
}

func TestNextLevelProgress(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		want    int
	}{
		{"nil profile", nil, 0},
		{"fresh", &Profile{Level: 1, Experience: 0}, 0},
		{"half band", &Profile{Level: 1, Experience: 500}, 50},
		{"rounded", &Profile{Level: 2, Experience: 1255}, 26},
		{"just levelled", &Profile{Level: 2, Experience: 1010}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextLevelProgress(tt.profile, 1000); got != tt.want {
				t.Errorf("NextLevelProgress() = %d, want %d", got, tt.want)
			}
		})
	}
}
