package menuparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// maxRowQuantity bounds how many repetitions a single table row may expand into.
const maxRowQuantity = 50

const tablePrice = `(?:[£$€₹¥]\s?)?\d{1,4}(?:,\d{3})*(?:[.,]\d{1,2})?`

var (
	// <name> <unit-price> <qty> <line-total>
	reTableRow = regexp.MustCompile(`^(.+?)\s+(` + tablePrice + `)\s+(\d{1,3})\s+(` + tablePrice + `)$`)
	// <unit-price> <qty> <line-total> on the line after a wrapped name
	reTableTriple = regexp.MustCompile(`^(` + tablePrice + `)\s+(\d{1,3})\s+(` + tablePrice + `)$`)
)

// TableStrategy parses receipts laid out as a product table under a PRODUCT (or PRICE + QTY)
// header. A row with quantity n expands into n items at the unit price.
type TableStrategy struct{}

func (TableStrategy) Name() string { return constants.StrategyTable }

func (s TableStrategy) Pair(lines []entity.ClassifiedLine) StrategyResult {
	res := newResult(s.Name())
	header := findTableHeader(lines)
	if header < 0 {
		return res.fail("no header found")
	}
	res.tracef(header, "table header %q", lines[header].Text)

	for i := header + 1; i < len(lines); i++ {
		l := lines[i]
		switch {
		case l.Tag == constants.TagNoise:
			continue
		case l.Tag.IsSummary():
			i = s.consumeSummary(&res, lines, i)
			continue
		case l.Tag == constants.TagPrice:
			res.tracef(l.Index, "orphan price line %q skipped", l.Text)
			continue
		}

		if m := reTableRow.FindStringSubmatch(l.Text); m != nil {
			if s.expandRow(&res, m[1], m[2], m[3], l.Index) {
				continue
			}
		}

		if i+1 < len(lines) {
			if m := reTableTriple.FindStringSubmatch(strings.TrimSpace(lines[i+1].Text)); m != nil {
				if s.expandRow(&res, l.Text, m[1], m[2], l.Index) {
					i++
					continue
				}
			}
		}

		if name, price, ok := splitTrailingPrice(l.Text); ok {
			res.addItem(name, price, 1, l.Index)
			continue
		}
		res.tracef(l.Index, "row %q did not match", l.Text)
	}
	return res
}

// expandRow appends qty copies of name at the unit price. It reports false when the row values
// do not parse, letting the caller try the next fallback.
func (s TableStrategy) expandRow(res *StrategyResult, name, unit, qtyText string, line int) bool {
	name = strings.TrimSpace(name)
	price, ok := ExtractPrice(unit)
	if !ok || name == "" {
		return false
	}
	qty, err := strconv.Atoi(qtyText)
	if err != nil || qty < 1 {
		res.tracef(line, "row %q has no usable quantity", name)
		return false
	}
	if qty > maxRowQuantity {
		res.tracef(line, "implausible quantity %d for %q, using 1", qty, name)
		qty = 1
	}
	for n := 0; n < qty; n++ {
		res.addItem(name, price, 1, line)
	}
	return true
}

// consumeSummary records the amount of a TOTAL/TAX/SERVICE row, taken from the row itself or
// from a PRICE line right below it, and returns the last index consumed.
func (s TableStrategy) consumeSummary(res *StrategyResult, lines []entity.ClassifiedLine, i int) int {
	l := lines[i]
	if _, price, ok := splitTrailingPrice(l.Text); ok {
		res.addTotal(l.Tag, price, l.Index)
		return i
	}
	if i+1 < len(lines) && lines[i+1].Tag == constants.TagPrice {
		if price, ok := ExtractPrice(lines[i+1].Text); ok {
			res.addTotal(l.Tag, price, l.Index)
			return i + 1
		}
	}
	res.tracef(l.Index, "summary row %q without amount", l.Text)
	return i
}
