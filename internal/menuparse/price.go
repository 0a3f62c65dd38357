package menuparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// Accepted price bounds, inclusive.
const (
	MinPrice = 0.01
	MaxPrice = 9999.99
)

var (
	reCurrencyMark = regexp.MustCompile(`(?i)[£$€₹¥]|\bRS\.?|\bINR|\bUSD|\bGBP|\bEUR`)
	reDecimalComma = regexp.MustCompile(`^(\d+),(\d{2})$`)
	rePlainNumber  = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	reTwoDecimals  = regexp.MustCompile(`^\d{1,4}(,\d{3})*[.,]\d{2}$`)
)

// ExtractPrice strips currency marks and thousands separators from s and parses the rest.
// It reports false when s is not a number or the value lies outside [MinPrice, MaxPrice].
func ExtractPrice(s string) (float64, bool) {
	s = reCurrencyMark.ReplaceAllString(strings.TrimSpace(s), "")
	s = strings.ReplaceAll(s, " ", "")
	if m := reDecimalComma.FindStringSubmatch(s); m != nil {
		s = m[1] + "." + m[2]
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	if !rePlainNumber.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	v = roundCents(v)
	if v < MinPrice || v > MaxPrice {
		return 0, false
	}
	return v, true
}

// IsPriceToken reports whether a single token is price-shaped: it carries a currency mark or
// exactly two decimals, and it extracts to a valid price. Bare integers do not qualify.
func IsPriceToken(tok string) bool {
	if _, ok := ExtractPrice(tok); !ok {
		return false
	}
	if reCurrencyMark.MatchString(tok) {
		return true
	}
	return reTwoDecimals.MatchString(tok)
}

// splitTrailingPrice splits "NAME ... PRICE" into its name and price. The line must have at
// least two tokens and end in a price token, or in a bare amount right after a detached currency
// mark ("DAL MAKHANI Rs 150"). A detached mark before the price ("FRIES £ 3.00") is dropped from
// the name.
func splitTrailingPrice(line string) (string, float64, bool) {
	tokens := textnorm.Tokens(line)
	if len(tokens) < 2 {
		return "", 0, false
	}
	last := tokens[len(tokens)-1]
	nameTokens := tokens[:len(tokens)-1]
	price, ok := ExtractPrice(last)
	if !ok || !(IsPriceToken(last) || isCurrencyMark(nameTokens[len(nameTokens)-1])) {
		return "", 0, false
	}
	for len(nameTokens) > 0 && isCurrencyMark(nameTokens[len(nameTokens)-1]) {
		nameTokens = nameTokens[:len(nameTokens)-1]
	}
	if len(nameTokens) == 0 {
		return "", 0, false
	}
	return strings.Join(nameTokens, " "), price, true
}

// isCurrencyMark reports whether tok is nothing but a currency symbol or code ("£", "Rs.", "INR").
func isCurrencyMark(tok string) bool {
	return tok != "" && reCurrencyMark.ReplaceAllString(tok, "") == ""
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
