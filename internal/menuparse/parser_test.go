package menuparse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

func box(x, y, w, h int) entity.BoundingPoly {
	return entity.BoundingPoly{Vertices: []entity.Vertex{
		{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h},
	}}
}

func TestParseAdjacencyEndToEnd(t *testing.T) {
	res := NewParser().ParseText("BURGER\n£8.50\nFRIES £3.00")
	if !res.Success {
		t.Fatalf("expected success, got reason %q", res.Reason)
	}
	if res.Strategy != constants.StrategyAdjacency {
		t.Fatalf("strategy = %s, want adjacency", res.Strategy)
	}
	want := []entity.ParsedMenuItem{
		{Name: "BURGER", Price: 8.5},
		{Name: "FRIES", Price: 3},
	}
	if diff := cmp.Diff(want, res.MenuItems); diff != "" {
		t.Fatalf("menu items mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRupeeReceiptWithIntegerPrices(t *testing.T) {
	res := NewParser().ParseText("PANEER TIKKA Rs. 120\nDAL MAKHANI Rs 150\nTOTAL Rs 270")
	if !res.Success {
		t.Fatalf("expected success, got reason %q", res.Reason)
	}
	want := []entity.ParsedMenuItem{
		{Name: "PANEER TIKKA", Price: 120},
		{Name: "DAL MAKHANI", Price: 150},
	}
	if diff := cmp.Diff(want, res.MenuItems); diff != "" {
		t.Fatalf("menu items mismatch (-want +got):\n%s", diff)
	}
	wantTotals := []Total{{Kind: constants.TagTotal, Amount: 270, Line: 2}}
	if diff := cmp.Diff(wantTotals, res.Totals); diff != "" {
		t.Fatalf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMissingInput(t *testing.T) {
	res := NewParser().Parse(entity.OCRPayload{Text: "  \n "})
	if res.Success {
		t.Fatal("expected failure for empty payload")
	}
	if res.Reason != ReasonMissingInput {
		t.Fatalf("reason = %q, want %q", res.Reason, ReasonMissingInput)
	}
	if res.MenuItems == nil || len(res.MenuItems) != 0 {
		t.Fatalf("expected empty, non-nil menu items, got %#v", res.MenuItems)
	}
}

func TestParseNoItems(t *testing.T) {
	res := NewParser().ParseText("THANK YOU\nVISIT AGAIN\n12/03/2024")
	if res.Success {
		t.Fatalf("expected failure, got %+v", res.MenuItems)
	}
	if !strings.HasPrefix(res.Reason, ReasonNoItems) {
		t.Fatalf("reason = %q", res.Reason)
	}
}

func TestParseEmitsDuplicateTwin(t *testing.T) {
	res := NewParser().ParseText("TOAST BREAD TOAST BREAD BUTTER BUTTER 4.50")
	want := []entity.ParsedMenuItem{
		{Name: "TOAST BREAD BUTTER", Price: 4.5},
		{Name: "TOAST BREAD BUTTER", Price: 4.5, IsDuplicate: true},
	}
	if diff := cmp.Diff(want, res.MenuItems); diff != "" {
		t.Fatalf("menu items mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFiltersNonFood(t *testing.T) {
	res := NewParser().ParseText("CHICKEN CURRY £7.50\nWWW.CAFE.COM £1.00\nTEA\n£1.20")
	var names []string
	for _, it := range res.MenuItems {
		names = append(names, it.Name)
	}
	if diff := cmp.Diff([]string{"CHICKEN CURRY", "TEA"}, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	var rejected bool
	for _, c := range res.Candidates {
		if !c.IsLikelyMenuItem {
			rejected = true
		}
	}
	if !rejected {
		t.Fatal("expected a rejected candidate to be reported")
	}
}

func TestParseFallsBackWhenForcedStrategyFails(t *testing.T) {
	res := NewParser(WithStrategy(constants.StrategyTable)).ParseText("BURGER\n£8.50")
	if !res.Success || res.Strategy != constants.StrategyAdjacency {
		t.Fatalf("expected adjacency fallback, got strategy %q reason %q", res.Strategy, res.Reason)
	}
}

func TestParseTableExpandsQuantity(t *testing.T) {
	res := NewParser().ParseText("PRODUCT QTY PRICE\nCHICKEN CURRY £7.50 2 £15.00\nTOTAL £15.00")
	if res.Strategy != constants.StrategyTable {
		t.Fatalf("strategy = %s, want table", res.Strategy)
	}
	if len(res.MenuItems) != 2 {
		t.Fatalf("expected two items from a quantity-2 row, got %+v", res.MenuItems)
	}
	for _, it := range res.MenuItems {
		if it.Price != 7.5 {
			t.Fatalf("expected unit price 7.50, got %v", it.Price)
		}
	}
	if len(res.Totals) != 1 || res.Totals[0].Kind != constants.TagTotal {
		t.Fatalf("unexpected totals: %+v", res.Totals)
	}
}

func TestParseDetections(t *testing.T) {
	payload := entity.OCRPayload{Detections: []entity.RawDetection{
		{Text: "FRIES", Confidence: 0.9, BoundingPoly: box(10, 100, 50, 20)},
		{Text: "£3.00", Confidence: 0.7, BoundingPoly: box(200, 102, 50, 16)},
		{Text: "BURGER", Confidence: 0.8, BoundingPoly: box(10, 50, 60, 20)},
		{Text: "£8.50", Confidence: 0.8, BoundingPoly: box(200, 52, 50, 16)},
	}}

	lines := LinesFromDetections(payload.Detections)
	if diff := cmp.Diff([]string{"BURGER £8.50", "FRIES £3.00"}, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}

	res := NewParser().Parse(payload)
	want := []entity.ParsedMenuItem{{Name: "BURGER", Price: 8.5}, {Name: "FRIES", Price: 3}}
	if diff := cmp.Diff(want, res.MenuItems); diff != "" {
		t.Fatalf("menu items mismatch (-want +got):\n%s", diff)
	}
	if got := res.Candidates[1].Confidence; got < 0.79 || got > 0.81 {
		t.Fatalf("FRIES row confidence = %v, want 0.8", got)
	}
}

func TestFoodFilter(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		want  bool
	}{
		{"CHICKEN CURRY", 7.5, true},
		{"THANK YOU", 0, false},
		{"TEA", 1.2, true},
		{"info@cafe.com", 0, false},
		{"1234567", 0, false},
		{"2 PANEER", 0, true},
		{"X", 5, false},
		{"....", 0, false},
	}
	for _, tt := range tests {
		if got := IsLikelyMenuItem(tt.name, tt.price); got != tt.want {
			t.Errorf("IsLikelyMenuItem(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if Classify("TEA") != constants.TagItem {
		t.Fatal("TEA must classify as an item")
	}
}

func TestFoodScore(t *testing.T) {
	if got := FoodScore("THANK YOU"); got != 0 {
		t.Errorf("FoodScore(THANK YOU) = %v, want 0", got)
	}
	if got := FoodScore("CHICKEN CURRY"); got < 0.6 {
		t.Errorf("FoodScore(CHICKEN CURRY) = %v, want >= 0.6", got)
	}
	if got := CategoryOf("MASALA CHAI TEA"); got != constants.Drink {
		t.Errorf("CategoryOf = %s, want %s", got, constants.Drink)
	}
}
