package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of an identifier: surrounding
// whitespace removed and NFC normalised, so that visually identical
// reference designators coming from different tools compare equal.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// SplitList splits a separator-delimited list, normalises each element and
// drops empty ones. Used for the ';'-separated cells of input tables.
func SplitList(s string, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = Normalize(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
