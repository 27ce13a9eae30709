// Package textutil holds small text-shaping helpers used by host
// collaborators (title/abstract display, log messages). Nothing in here is
// used by the s2orc body transform itself, and nothing here touches byte
// offsets, so it never needs to stay in sync with span arithmetic.
package textutil

import "strings"

// NormalizeWhitespace joins whitespace-split tokens with a single space.
// It collapses runs of spaces, tabs and newlines the way title/abstract
// fields from the upstream metadata join are usually displayed.
func NormalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
