package menuparse

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/menuscan/constants"
	"github.com/joseph-ayodele/menuscan/internal/entity"
)

// rule tags a line when match returns true. Rules are evaluated in order; the first match wins.
type rule struct {
	name  string
	tag   constants.LineTag
	match func(upper string) bool
}

var (
	reBoilerplate = regexp.MustCompile(`\b(THANK|THANKS|THANKYOU|WELCOME|RECEIPT|INVOICE|CASHIER|SERVER|WAITER|STEWARD|TABLE|COVERS?|GUESTS?|VISIT|CHANGE|CASH|CARD|VISA|MASTERCARD|AMEX|TEL|PHONE|MOBILE|WWW|HTTPS?|PLEASE|AGAIN|TERMINAL|APPROVED|AUTH|GSTIN|FSSAI|PVT|LTD)\b`)
	reDate        = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}\s+(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[A-Z]*\s+\d{2,4}\b`)
	reTime        = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\s*(AM|PM)?\b`)
	reAcronym     = regexp.MustCompile(`^[A-Z]{2,3}$`)
	reOrderMarker = regexp.MustCompile(`^(ORDER|ORD|CHECK|CHK|BILL|TXN|TRANS|INV|TOKEN|KOT)\s*(NO\.?|NUMBER|#)?\s*[:#.]?\s*\d+|^#\s*\d+$`)
	rePunctuation = regexp.MustCompile(`^[\p{P}\p{S}\s]*$`)

	rePriceCurrency = regexp.MustCompile(`^(?:[£$€₹¥]|RS\.?|INR|USD|GBP|EUR)\s*\d{1,4}(?:,\d{3})*(?:[.,]\d{1,2})?$|^\d{1,4}(?:,\d{3})*(?:[.,]\d{1,2})?\s*(?:[£$€₹¥]|RS|INR|USD|GBP|EUR)$`)
	rePriceDecimal  = regexp.MustCompile(`^\d{1,4}(?:,\d{3})*[.,]\d{2}$`)
	rePriceInteger  = regexp.MustCompile(`^\d+$`)
)

// headerWords are column titles; a line made only of them is layout, not content.
var headerWords = map[string]struct{}{
	"ITEM": {}, "ITEMS": {}, "DESCRIPTION": {}, "PRODUCT": {}, "PRODUCTS": {}, "QTY": {},
	"QUANTITY": {}, "PRICE": {}, "AMOUNT": {}, "AMT": {}, "RATE": {}, "UNIT": {}, "NO": {},
	"S.NO": {}, "SL": {}, "PARTICULARS": {},
}

// teaToken is never noise even though it has the shape of a short acronym.
const teaToken = "TEA"

var rules = []rule{
	{name: "noise", tag: constants.TagNoise, match: isNoise},
	{name: "price", tag: constants.TagPrice, match: isPriceLine},
	{name: "total", tag: constants.TagTotal, match: func(s string) bool { return strings.Contains(s, "TOTAL") }},
	{name: "tax", tag: constants.TagTax, match: func(s string) bool {
		return strings.Contains(s, "TAX") || strings.Contains(s, "GST")
	}},
	{name: "service", tag: constants.TagService, match: func(s string) bool { return strings.Contains(s, "SERVICE") }},
}

// Classify tags a single trimmed line. Lines no rule claims are items.
func Classify(line string) constants.LineTag {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, r := range rules {
		if r.match(upper) {
			return r.tag
		}
	}
	return constants.TagItem
}

// ClassifyLines tags each line, keeping its position.
func ClassifyLines(lines []string) []entity.ClassifiedLine {
	out := make([]entity.ClassifiedLine, len(lines))
	for i, l := range lines {
		out[i] = entity.ClassifiedLine{Index: i, Text: l, Tag: Classify(l)}
	}
	return out
}

func isNoise(s string) bool {
	if s == teaToken {
		return false
	}
	switch {
	case rePunctuation.MatchString(s):
		return true
	case reAcronym.MatchString(s):
		return true
	case reOrderMarker.MatchString(s):
		return true
	case reDate.MatchString(s), reTime.MatchString(s):
		return true
	case reBoilerplate.MatchString(s):
		return true
	}
	return isHeaderRow(s)
}

func isHeaderRow(s string) bool {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if _, ok := headerWords[strings.Trim(t, ":")]; !ok {
			return false
		}
	}
	return true
}

func isPriceLine(s string) bool {
	if !rePriceCurrency.MatchString(s) && !rePriceDecimal.MatchString(s) && !rePriceInteger.MatchString(s) {
		return false
	}
	_, ok := ExtractPrice(s)
	return ok
}
