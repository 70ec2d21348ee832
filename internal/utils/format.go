// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent of
// domain or business logic.
package utils

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// gbp renders numbers with British grouping separators.
var gbp = message.NewPrinter(language.BritishEnglish)

// FormatPrice renders a price with the currency symbol and thousands
// separators. Whole amounts drop the decimals.
//
//	FormatPrice(500)    // "£500"
//	FormatPrice(1500)   // "£1,500"
//	FormatPrice(79.5)   // "£79.50"
func FormatPrice(price float64) string {
	if price == float64(int64(price)) {
		return gbp.Sprintf("£%d", int64(price))
	}
	return gbp.Sprintf("£%.2f", price)
}

// HumanizeDuration renders a duration in minutes as readable text.
//
//	HumanizeDuration(45) // "45 minutes"
//	HumanizeDuration(60) // "1 hour"
//	HumanizeDuration(90) // "1 hour 30 minutes"
func HumanizeDuration(minutes int) string {
	if minutes <= 0 {
		return "0 minutes"
	}
	h, m := minutes/60, minutes%60
	var parts []string
	if h == 1 {
		parts = append(parts, "1 hour")
	} else if h > 1 {
		parts = append(parts, fmt.Sprintf("%d hours", h))
	}
	if m == 1 {
		parts = append(parts, "1 minute")
	} else if m > 1 || h == 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", m))
	}
	return strings.Join(parts, " ")
}

// nonSlugRE matches runs of characters that cannot appear in a slug.
var nonSlugRE = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses non-alphanumeric runs to hyphens.
func Slugify(name string) string {
	s := nonSlugRE.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
