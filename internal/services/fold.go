package services

import "golang.org/x/text/cases"

// foldText maps s to its Unicode case-folded form for case-insensitive
// comparison.
func foldText(s string) string {
	return cases.Fold().String(s)
}
