package utils

import (
	"golang.org/x/text/cases"
)

// Fold case-folds s for caseless matching. Stored search fields and incoming
// queries both go through it so they compare equal.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	// a Caser keeps state, so one per call
	return cases.Fold().String(s)
}
