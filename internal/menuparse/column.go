package menuparse

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// Column item names must fall inside this rune-length window.
const (
	columnNameMin = 3
	columnNameMax = 20
)

// ColumnStrategy handles receipts where OCR read the item column and the amount column as two
// separate blocks: names sit between the ITEM and AMOUNT markers, prices follow. Names and prices
// are matched purely by position.
type ColumnStrategy struct{}

func (ColumnStrategy) Name() string { return constants.StrategyColumn }

type columnEntry struct {
	line    entity.ClassifiedLine
	summary bool
}

type priceSlot struct {
	index int
	value float64
	after bool
}

func (s ColumnStrategy) Pair(lines []entity.ClassifiedLine) StrategyResult {
	res := newResult(s.Name())
	itemIdx, amountIdx := findColumnMarkers(lines)
	if itemIdx < 0 || amountIdx < 0 {
		return res.fail("no ITEM/AMOUNT markers found")
	}
	res.tracef(itemIdx, "ITEM marker, AMOUNT marker at line %d", amountIdx)

	var entries []columnEntry
	for _, l := range lines[itemIdx+1 : amountIdx] {
		switch {
		case l.Tag.IsSummary():
			entries = append(entries, columnEntry{line: l, summary: true})
		case isColumnItemName(l.Text):
			entries = append(entries, columnEntry{line: l})
		default:
			res.tracef(l.Index, "column candidate %q rejected", l.Text)
		}
	}

	var prices []priceSlot
	for _, l := range lines {
		if l.Tag != constants.TagPrice {
			continue
		}
		if v, ok := ExtractPrice(l.Text); ok {
			prices = append(prices, priceSlot{index: l.Index, value: v, after: l.Index > amountIdx})
		}
	}
	sort.SliceStable(prices, func(a, b int) bool {
		if prices[a].after != prices[b].after {
			return prices[a].after
		}
		return prices[a].index < prices[b].index
	})

	for k, e := range entries {
		var price float64
		if k < len(prices) {
			price = prices[k].value
		} else if !e.summary {
			res.tracef(e.line.Index, "no price left for %q, using 0", e.line.Text)
		}
		if e.summary {
			if k < len(prices) {
				res.addTotal(e.line.Tag, price, e.line.Index)
			}
			continue
		}
		res.addItem(e.line.Text, price, 1, e.line.Index)
	}
	return res
}

// isColumnItemName applies the column whitelist: a food keyword, 3 to 20 runes, no leading digit.
func isColumnItemName(name string) bool {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < columnNameMin || n > columnNameMax {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsDigit(r) {
		return false
	}
	return hasFoodKeyword(strings.ToLower(name))
}
