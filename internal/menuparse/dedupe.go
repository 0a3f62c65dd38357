package menuparse

import (
	"strings"

	"github.com/joseph-ayodele/menuscan/internal/entity"
	"github.com/joseph-ayodele/menuscan/internal/textnorm"
)

// CleanItemName collapses repeated adjacent token blocks that OCR produces when two identical
// order lines are merged ("TOAST BREAD TOAST BREAD" -> "TOAST BREAD"). At each position the
// smallest repeating block wins. Names without a repeat are returned unchanged.
func CleanItemName(name string) (cleaned string, removed bool) {
	tokens := textnorm.Tokens(name)
	if len(tokens) <= 1 {
		return name, false
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		block := 0
		for j := 1; j <= (len(tokens)-i)/2; j++ {
			if equalTokens(tokens[i:i+j], tokens[i+j:i+2*j]) {
				block = j
				break
			}
		}
		if block == 0 {
			out = append(out, tokens[i])
			i++
			continue
		}
		out = append(out, tokens[i:i+block]...)
		i += 2 * block
		removed = true
	}

	if !removed {
		return name, false
	}
	return strings.Join(out, " "), true
}

// ExpandDuplicates returns the output records for one candidate. A collapsed name stands for two
// physical order lines, so it yields the item plus an IsDuplicate twin at the same price.
func ExpandDuplicates(name string, price float64) []entity.ParsedMenuItem {
	cleaned, removed := CleanItemName(name)
	items := []entity.ParsedMenuItem{{Name: cleaned, Price: price}}
	if removed {
		items = append(items, entity.ParsedMenuItem{Name: cleaned, Price: price, IsDuplicate: true})
	}
	return items
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
