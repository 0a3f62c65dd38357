package menuparse

import (
	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// AdjacencyStrategy pairs free-form single-column receipts.
//
// Two independent checks run on every line. A PRICE line is paired with the line above it when
// that line is neither NOISE nor PRICE. Separately, any line of two or more tokens ending in a
// price token is paired with its own trailing price. Both can fire for one physical line, so a
// line may yield two overlapping candidates; this is kept as-is.
type AdjacencyStrategy struct{}

func (AdjacencyStrategy) Name() string { return constants.StrategyAdjacency }

func (s AdjacencyStrategy) Pair(lines []entity.ClassifiedLine) StrategyResult {
	res := newResult(s.Name())
	if len(lines) == 0 {
		return res.fail("no lines to pair")
	}

	for i, l := range lines {
		if l.Tag == constants.TagPrice && i > 0 {
			prev := lines[i-1]
			if prev.Tag != constants.TagNoise && prev.Tag != constants.TagPrice {
				if price, ok := ExtractPrice(l.Text); ok {
					if prev.Tag.IsSummary() {
						res.addTotal(prev.Tag, price, prev.Index)
					} else {
						res.addItem(prev.Text, price, 1, prev.Index)
					}
				}
			}
		}

		if name, price, ok := splitTrailingPrice(l.Text); ok {
			if l.Tag.IsSummary() {
				res.addTotal(l.Tag, price, l.Index)
			} else {
				res.addItem(name, price, 1, l.Index)
			}
		}
	}
	return res
}
