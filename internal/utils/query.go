// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A cases.Caser keeps state, so one is built per call.
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// QueryFlag parses a boolean query parameter: the value is true when its
// title-cased form is exactly "True" ("true", "TRUE", "tRuE"). Anything else,
// including surrounding whitespace or "1", is false.
//
// Example:
//
//	utils.QueryFlag("TRUE")  // true
//	utils.QueryFlag("yes")   // false
//	utils.QueryFlag("")      // false
func QueryFlag(v string) bool {
	return title(v) == "True"
}
