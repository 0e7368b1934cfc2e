package commission

import "strings"

// liquidityKeywords is checked in order; the first class with a keyword
// contained in the descriptor wins.
var liquidityKeywords = []struct {
	class    LiquidityClass
	keywords []string
}{
	{Semiannual, []string{"semestral", "semiannual", "semi-annual"}},
	{Annual, []string{"anual", "annual", "yearly", "12"}},
	{Biennial, []string{"bienal", "biennial", "24"}},
	{Triennial, []string{"trienal", "triennial", "36"}},
}

// Classify normalizes a free-text liquidity descriptor. Anything
// unrecognized, including an empty descriptor, is monthly: a missing
// liquidity is not an error.
func Classify(descriptor string) LiquidityClass {
	d := strings.ToLower(strings.TrimSpace(descriptor))
	if d == "" {
		return Monthly
	}
	for _, k := range liquidityKeywords {
		for _, kw := range k.keywords {
			if strings.Contains(d, kw) {
				return k.class
			}
		}
	}
	return Monthly
}
