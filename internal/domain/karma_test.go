package domain

import (
	"math"
	"testing"
)

func TestLevelFor_TableBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		points int
		want   int
	}{
		{0, 0},
		{49, 0},
		{50, 1},
		{149, 1},
		{150, 2},
		{299, 2},
		{300, 3},
		{4999, 9},
		{5000, 10},
		{999999, 10}, // capped
	}

	for _, tt := range tests {
		if got := LevelFor(tt.points); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestLevelFor_NegativePoints(t *testing.T) {
	t.Parallel()

	if got := LevelFor(-10); got != 0 {
		t.Fatalf("LevelFor(-10) = %d, want 0", got)
	}
}

func TestProgressToNext(t *testing.T) {
	t.Parallel()

	// Exactly at the level-2 threshold: 0% toward the 300-point threshold.
	if got := ProgressToNext(150, 2); got != 0 {
		t.Fatalf("ProgressToNext(150, 2) = %v, want 0", got)
	}

	// Halfway between 150 and 300.
	if got := ProgressToNext(225, 2); math.Abs(got-50) > 1e-9 {
		t.Fatalf("ProgressToNext(225, 2) = %v, want 50", got)
	}

	// At max level progress saturates at 100.
	if got := ProgressToNext(999999, MaxLevel); got != 100 {
		t.Fatalf("ProgressToNext(999999, max) = %v, want 100", got)
	}

	// Never below 0 even with inconsistent inputs.
	if got := ProgressToNext(0, 5); got != 0 {
		t.Fatalf("ProgressToNext(0, 5) = %v, want 0", got)
	}
}

func TestPointsToNext(t *testing.T) {
	t.Parallel()

	if got := PointsToNext(150, 2); got != 150 {
		t.Fatalf("PointsToNext(150, 2) = %d, want 150", got)
	}
	if got := PointsToNext(5000, 10); got != 0 {
		t.Fatalf("PointsToNext(5000, 10) = %d, want 0", got)
	}
	if got := PointsToNext(49, 0); got != 1 {
		t.Fatalf("PointsToNext(49, 0) = %d, want 1", got)
	}
}

func TestLevelName(t *testing.T) {
	t.Parallel()

	if got := LevelName(0); got != "Nieuweling" {
		t.Fatalf("LevelName(0) = %q", got)
	}
	if got := LevelName(2); got != "Luisteraar" {
		t.Fatalf("LevelName(2) = %q", got)
	}
	if got := LevelName(MaxLevel); got != "Onsterfelijk" {
		t.Fatalf("LevelName(max) = %q", got)
	}
	// Out-of-range levels clamp to the list bounds.
	if got := LevelName(99); got != "Onsterfelijk" {
		t.Fatalf("LevelName(99) = %q", got)
	}
	if got := LevelName(-1); got != "Nieuweling" {
		t.Fatalf("LevelName(-1) = %q", got)
	}
}

func TestLevelTable_Consistency(t *testing.T) {
	t.Parallel()

	if len(karmaThresholds) != len(karmaLevelNames) {
		t.Fatalf("threshold table (%d) and name table (%d) must be the same length",
			len(karmaThresholds), len(karmaLevelNames))
	}
	for i := 1; i < len(karmaThresholds); i++ {
		if karmaThresholds[i] <= karmaThresholds[i-1] {
			t.Fatalf("thresholds must be strictly ascending at index %d", i)
		}
	}
}
