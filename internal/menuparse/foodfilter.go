package menuparse

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/menuscan/constants"
)

const keywordWeight = 0.3

// extraFoodKeywords widen the acceptance gate beyond the scored vocabulary.
var extraFoodKeywords = []string{
	"paratha", "kulcha", "tikka", "samosa", "pakora", "momo", "thali", "manchurian", "chowmein",
	"ice cream", "icecream", "waffle", "pancake", "muffin", "cookie", "brownie", "donut",
	"croissant", "omelette", "steak", "wings", "nugget", "taco", "burrito", "nachos", "sushi",
	"ramen", "dumpling", "falafel", "hummus", "kulfi", "halwa", "gulab", "raita", "chutney",
	"papad", "mushroom", "veg", "corn", "bean", "mango", "lime", "lemon", "orange", "apple",
	"berry", "chocolate", "vanilla", "cream", "yogurt", "curd", "sauce", "platter", "combo",
	"meal", "starter", "drink", "beverage", "mocktail", "roll", "fry", "tikki", "dip",
}

var nonFoodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.]+`),
	regexp.MustCompile(`[£$€₹¥]\s*\d`),
	regexp.MustCompile(`\d{5,}`),
	regexp.MustCompile(`(?i)\b(TOTAL|SUBTOTAL|TAX|GST|CGST|SGST|VAT|SERVICE|CHANGE|CASH|CARD|VISA|MASTERCARD|AMEX|BALANCE|DUE|PAID|PAYMENT|TIP|GRATUITY|DISCOUNT|ROUND\s*OFF|THANK|THANKS|WELCOME|RECEIPT|INVOICE|TABLE|SERVER|CASHIER|ORDER|GUESTS?|TEL|PHONE)\b`),
	regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b|\b\d{1,2}:\d{2}\b`),
	regexp.MustCompile(`(?i)\bwww\.|https?://|\b[a-z0-9-]+\.(com|net|org|in|co|uk|io|biz)\b`),
}

var (
	reOnlyDigitsPunct = regexp.MustCompile(`^[\d\p{P}\p{S}\s]*$`)
	reQtyPrefixed     = regexp.MustCompile(`^\d+\s+[A-Z]{3,}`)
	reLetterRun       = regexp.MustCompile(`\p{L}{3,}`)
)

// FoodScore counts how many vocabulary keywords occur in name: min(1, matches × 0.3).
func FoodScore(name string) float64 {
	lower := strings.ToLower(name)
	matches := 0
	for _, cat := range constants.FoodCategories() {
		for _, kw := range constants.FoodVocabulary[cat] {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
	}
	return math.Min(1.0, float64(matches)*keywordWeight)
}

// CategoryOf returns the vocabulary category with the most keyword hits, or Other.
func CategoryOf(name string) constants.FoodCategory {
	lower := strings.ToLower(name)
	best, bestHits := constants.Other, 0
	for _, cat := range constants.FoodCategories() {
		hits := 0
		for _, kw := range constants.FoodVocabulary[cat] {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = cat, hits
		}
	}
	return best
}

// IsLikelyMenuItem is the accept/reject gate applied before output. Ambiguous names are kept.
func IsLikelyMenuItem(name string, price float64) bool {
	name = strings.TrimSpace(name)
	for _, re := range nonFoodPatterns {
		if re.MatchString(name) {
			return false
		}
	}

	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 || reOnlyDigitsPunct.MatchString(name) {
		return false
	}
	if hasFoodKeyword(strings.ToLower(name)) {
		return true
	}
	if reQtyPrefixed.MatchString(strings.ToUpper(name)) {
		return true
	}
	if n >= 3 && n <= 25 && reLetterRun.MatchString(name) && !allConsonants(name) {
		return true
	}
	return price > 0 || (n >= 4 && n <= 20)
}

func hasFoodKeyword(lower string) bool {
	for _, cat := range constants.FoodCategories() {
		for _, kw := range constants.FoodVocabulary[cat] {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	for _, kw := range extraFoodKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func allConsonants(s string) bool {
	for _, r := range strings.ToUpper(s) {
		if !unicode.IsLetter(r) {
			continue
		}
		if strings.ContainsRune("AEIOUY", r) {
			return false
		}
	}
	return true
}
