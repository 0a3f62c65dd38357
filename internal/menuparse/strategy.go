package menuparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// Pair is a (name, price, quantity) triple emitted by a pairing strategy.
type Pair struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Line     int     `json:"line"`
}

// Total is a recognized summary amount (total, tax, service charge).
type Total struct {
	Kind   constants.LineTag `json:"kind"`
	Amount float64           `json:"amount"`
	Line   int               `json:"line"`
}

// TraceEvent is a structured observation recorded while parsing.
type TraceEvent struct {
	Stage   string `json:"stage"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// StrategyResult is the uniform outcome of every pairing strategy. A failed result carries a
// Reason; strategies never panic on malformed lines.
type StrategyResult struct {
	Strategy string       `json:"strategy"`
	Success  bool         `json:"success"`
	Items    []Pair       `json:"items"`
	Totals   []Total      `json:"totals,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Trace    []TraceEvent `json:"trace,omitempty"`
}

// Strategy turns classified lines into candidate pairs for one receipt layout.
type Strategy interface {
	Name() string
	Pair(lines []entity.ClassifiedLine) StrategyResult
}

func newResult(name string) StrategyResult {
	return StrategyResult{Strategy: name, Success: true, Items: []Pair{}}
}

func (r *StrategyResult) fail(reason string) StrategyResult {
	r.Success = false
	r.Reason = reason
	r.Items = []Pair{}
	r.tracef(-1, "failed: %s", reason)
	return *r
}

func (r *StrategyResult) tracef(line int, format string, args ...any) {
	r.Trace = append(r.Trace, TraceEvent{Stage: r.Strategy, Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *StrategyResult) addItem(name string, price float64, qty, line int) {
	r.Items = append(r.Items, Pair{Name: name, Price: price, Quantity: qty, Line: line})
	r.tracef(line, "paired %q with %.2f", name, price)
}

func (r *StrategyResult) addTotal(kind constants.LineTag, amount float64, line int) {
	r.Totals = append(r.Totals, Total{Kind: kind, Amount: amount, Line: line})
	r.tracef(line, "recorded %s %.2f", kind, amount)
}

var (
	reItemMarker   = regexp.MustCompile(`^ITEMS?(\s+(NAME|DESCRIPTION))?:?$`)
	reAmountMarker = regexp.MustCompile(`^(AMOUNT|AMT)\b`)
)

// findTableHeader returns the index of the first table header line, or -1.
func findTableHeader(lines []entity.ClassifiedLine) int {
	for _, l := range lines {
		up := strings.ToUpper(l.Text)
		if strings.Contains(up, "PRODUCT") || (strings.Contains(up, "PRICE") && strings.Contains(up, "QTY")) {
			return l.Index
		}
	}
	return -1
}

// findColumnMarkers returns the indexes of the ITEM and AMOUNT section markers, or -1 for each
// one that is absent. AMOUNT is only searched below ITEM.
func findColumnMarkers(lines []entity.ClassifiedLine) (int, int) {
	itemIdx, amountIdx := -1, -1
	for i, l := range lines {
		up := strings.ToUpper(strings.TrimSpace(l.Text))
		if itemIdx < 0 {
			if reItemMarker.MatchString(up) {
				itemIdx = i
			}
			continue
		}
		if reAmountMarker.MatchString(up) {
			amountIdx = i
			break
		}
	}
	return itemIdx, amountIdx
}

// Probe picks the strategy whose layout markers are present: a table header, then the
// ITEM/AMOUNT column markers, otherwise line adjacency.
func Probe(lines []entity.ClassifiedLine) string {
	if findTableHeader(lines) >= 0 {
		return constants.StrategyTable
	}
	if item, amount := findColumnMarkers(lines); item >= 0 && amount >= 0 {
		return constants.StrategyColumn
	}
	return constants.StrategyAdjacency
}

// StrategyByName returns the named strategy.
func StrategyByName(name string) (Strategy, bool) {
	switch name {
	case constants.StrategyAdjacency:
		return AdjacencyStrategy{}, true
	case constants.StrategyTable:
		return TableStrategy{}, true
	case constants.StrategyColumn:
		return ColumnStrategy{}, true
	}
	return nil, false
}
