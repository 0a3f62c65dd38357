package textnorm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLines(t *testing.T) {
	in := "BURGER\r\n\t£8.50  \n\n\n\n-----\nFRIES    £3.00\n"
	want := []string{"BURGER", "£8.50", "FRIES £3.00"}
	if diff := cmp.Diff(want, Lines(in)); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestFold(t *testing.T) {
	tests := map[string]string{
		"  crème  brûlée ": "CREME BRULEE",
		"chik":             "CHIK",
		"":                 "",
	}
	for in, want := range tests {
		if got := Fold(in); got != want {
			t.Errorf("Fold(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasWhitespace(t *testing.T) {
	if HasWhitespace("CHICKEN") {
		t.Fatal("single token reported as having whitespace")
	}
	if !HasWhitespace("CHICKEN CURRY") || !HasWhitespace("A\tB") {
		t.Fatal("whitespace not detected")
	}
}
