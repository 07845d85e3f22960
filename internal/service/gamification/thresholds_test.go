package gamification

import (
	"reflect"
	"testing"

	"github.com/baloria-app/baloria-backend/internal/domain"
)

func TestCheckThresholds(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		{Name: "Eerste Vraag", Threshold: 1},
		{Name: "Conversation Starter", Threshold: 10},
		{Name: "Nieuwsgierig", Threshold: 50},
	}

	tests := []struct {
		name    string
		current int
		earned  map[string]bool
		want    []string
	}{
		{
			name:    "below all thresholds",
			current: 0,
			want:    nil,
		},
		{
			name:    "first threshold reached",
			current: 1,
			want:    []string{"Eerste Vraag"},
		},
		{
			name:    "several reached at once",
			current: 10,
			want:    []string{"Eerste Vraag", "Conversation Starter"},
		},
		{
			name:    "earned badges excluded",
			current: 10,
			earned:  map[string]bool{"Eerste Vraag": true},
			want:    []string{"Conversation Starter"},
		},
		{
			name:    "all earned yields nothing",
			current: 100,
			earned: map[string]bool{
				"Eerste Vraag": true, "Conversation Starter": true, "Nieuwsgierig": true,
			},
			want: nil,
		},
		{
			name:    "exactly at threshold qualifies",
			current: 50,
			earned:  map[string]bool{"Eerste Vraag": true, "Conversation Starter": true},
			want:    []string{"Nieuwsgierig"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CheckThresholds(tt.current, candidates, tt.earned)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CheckThresholds(%d): got %v, want %v", tt.current, got, tt.want)
			}
		})
	}
}

func TestCheckThresholds_PreservesCandidateOrder(t *testing.T) {
	t.Parallel()

	// Deliberately not sorted by threshold.
	candidates := []Candidate{
		{Name: "c", Threshold: 30},
		{Name: "a", Threshold: 10},
		{Name: "b", Threshold: 20},
	}

	got := CheckThresholds(100, candidates, nil)
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order not preserved: got %v, want %v", got, want)
	}
}

func TestCheckThresholds_EmptyCandidates(t *testing.T) {
	t.Parallel()

	if got := CheckThresholds(100, nil, nil); got != nil {
		t.Errorf("expected nil for empty candidates, got %v", got)
	}
}

func TestCatalogSeed_ThresholdsAscendPerCategory(t *testing.T) {
	t.Parallel()

	last := map[domain.ActionType]int{}
	for _, b := range CatalogSeed() {
		if b.Threshold <= 0 {
			t.Errorf("badge %q has non-positive threshold %d", b.Name, b.Threshold)
		}
		if b.Threshold <= last[b.Category] {
			t.Errorf("badge %q threshold %d does not ascend within %s", b.Name, b.Threshold, b.Category)
		}
		last[b.Category] = b.Threshold
	}
}

func TestCatalogSeed_QuotaBonusBadgesPresent(t *testing.T) {
	t.Parallel()

	names := map[string]bool{}
	for _, b := range CatalogSeed() {
		if names[b.Name] {
			t.Errorf("duplicate badge name %q", b.Name)
		}
		names[b.Name] = true
	}

	for _, required := range []string{"Conversation Starter", "Guru"} {
		if !names[required] {
			t.Errorf("catalog is missing %q", required)
		}
	}
}
