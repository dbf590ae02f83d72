// Package util provides common utility functions.
package util

import (
	"strings"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// NormalizeTagName converts user input to a canonical tag name.
// The canonical name is the source of truth for tag identity.
//
// Normalization rules:
//  1. Trim surrounding whitespace
//  2. Collapse internal whitespace runs to a single space
//  3. Unicode case-fold
//
// Examples:
//
//	"Motivation"      -> "motivation"
//	"  Life   Advice" -> "life advice"
//	"STOICISM"        -> "stoicism"
func NormalizeTagName(input string) string {
	s := strings.Join(strings.Fields(input), " ")
	return foldCaser.String(s)
}
