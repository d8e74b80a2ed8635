// Package pricing turns raw price text from a listing into the shop's
// listed price: detected base plus a fixed per-category markup.
package pricing

import (
	"strconv"
	"strings"
)

const (
	// DefaultMarkup applies to categories not in the table.
	DefaultMarkup = 500

	// ManualReviewCeiling flags prices above this as misparsed (a price
	// glued to a rating or view count produces absurd digit strings).
	ManualReviewCeiling = 100000
)

// Engine computes listed prices from raw listing text.
type Engine struct {
	markups map[string]int
}

// NewEngine creates a pricing engine with the shop's markup table.
func NewEngine() *Engine {
	return &Engine{
		markups: map[string]int{
			"Laptops": 500,
			"Phones":  400,
			"Audio":   250,
		},
	}
}

// Markup returns the fixed markup amount for a category.
func (e *Engine) Markup(category string) int {
	if m, ok := e.markups[category]; ok {
		return m
	}
	return DefaultMarkup
}

// ParseBase strips every non-digit from raw price text and parses the
// remainder. Garbage, empty input, and overflow all come back as 0, the
// unresolved sentinel.
func ParseBase(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	base, err := strconv.Atoi(b.String())
	if err != nil || base < 0 {
		return 0
	}
	return base
}

// Price computes the listed price for raw price text in a category. An
// unresolved base stays 0; markup is never applied to it.
func (e *Engine) Price(raw, category string) int {
	base := ParseBase(raw)
	if base == 0 {
		return 0
	}
	return base + e.Markup(category)
}

// Reprice applies the markup formula to an operator-supplied base price.
// Manual corrections go through here rather than trusting a hand-typed
// final price.
func (e *Engine) Reprice(base int, category string) int {
	if base <= 0 {
		return 0
	}
	return base + e.Markup(category)
}

// NeedsManualReview reports whether automated price detection is
// untrustworthy for this listed price: unresolved, or past the sanity
// ceiling.
func (e *Engine) NeedsManualReview(price int) bool {
	return price == 0 || price > ManualReviewCeiling
}
