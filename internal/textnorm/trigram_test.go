package textnorm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrigrams(t *testing.T) {
	got := Trigrams("Cat")
	want := map[string]struct{}{"  c": {}, " ca": {}, "cat": {}, "at ": {}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("trigrams mismatch (-want +got):\n%s", diff)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"CHICKEN", "CHICKEN", 1},
		{"chicken", "CHICKEN", 1},
		{"CHIK", "CHICKEN", 0.3},
		{"", "CHICKEN", 0},
		{"XYZ", "CHICKEN", 0},
	}
	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSimilarityAtDefaultThreshold(t *testing.T) {
	if Similarity("CHIK", "CHICKEN") < DefaultSimilarityThreshold {
		t.Fatal("expected CHIK to be similar to CHICKEN at the default threshold")
	}
	if Similarity("NAAN", "CHICKEN") >= DefaultSimilarityThreshold {
		t.Fatal("NAAN should not be similar to CHICKEN")
	}
}
