package menuparse

import (
	"fmt"
	"math"
	"testing"
)

func TestExtractPriceRoundTrip(t *testing.T) {
	for cents := 1; cents <= 999999; cents += 37 {
		want := float64(cents) / 100
		for _, format := range []string{"£%.2f", "$ %.2f", "Rs.%.2f", "%.2f"} {
			in := fmt.Sprintf(format, want)
			got, ok := ExtractPrice(in)
			if !ok {
				t.Fatalf("ExtractPrice(%q) reported not a price", in)
			}
			if math.Abs(got-want) > 0.001 {
				t.Fatalf("ExtractPrice(%q) = %v, want %v", in, got, want)
			}
		}
	}
	if got, ok := ExtractPrice("£9999.99"); !ok || got != MaxPrice {
		t.Fatalf("upper bound: got %v, %v", got, ok)
	}
}

func TestExtractPriceRejects(t *testing.T) {
	for _, in := range []string{"£0.00", "0", "£10000.00", "12345.67", "", "£", "ABC", "1.234", "-5.00"} {
		if got, ok := ExtractPrice(in); ok {
			t.Errorf("ExtractPrice(%q) = %v, want not a price", in, got)
		}
	}
}

func TestExtractPriceSeparators(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1,250.00", 1250},
		{"₹ 1,250", 1250},
		{"12,50", 12.5},
		{"EUR 4.5", 4.5},
		{"8.50 GBP", 8.5},
		{"USD5.00", 5},
		{"INR120", 120},
	}
	for _, tt := range tests {
		got, ok := ExtractPrice(tt.in)
		if !ok || got != tt.want {
			t.Errorf("ExtractPrice(%q) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}
}

func TestSplitTrailingPrice(t *testing.T) {
	tests := []struct {
		line  string
		name  string
		price float64
		ok    bool
	}{
		{"FRIES £3.00", "FRIES", 3, true},
		{"FRIES £ 3.00", "FRIES", 3, true},
		{"CHICKEN CURRY 7.50", "CHICKEN CURRY", 7.5, true},
		{"PANEER TIKKA Rs. 120", "PANEER TIKKA", 120, true},
		{"DAL MAKHANI Rs 150", "DAL MAKHANI", 150, true},
		{"LASSI INR 90", "LASSI", 90, true},
		{"Rs 120", "", 0, false},
		{"TABLE 12", "", 0, false},
		{"£3.00", "", 0, false},
		{"FRIES", "", 0, false},
	}
	for _, tt := range tests {
		name, price, ok := splitTrailingPrice(tt.line)
		if name != tt.name || price != tt.price || ok != tt.ok {
			t.Errorf("splitTrailingPrice(%q) = (%q, %v, %v), want (%q, %v, %v)",
				tt.line, name, price, ok, tt.name, tt.price, tt.ok)
		}
	}
}
