// Package schema resolves tabular source columns against an explicit
// ordered list of canonical names and synonyms, and defines the fatal
// error raised when a required column is absent.
package schema

import (
	"fmt"
	"strings"
)

// Column names one logical field and the header spellings that satisfy it.
// Resolution walks Canonical first, then Synonyms in declaration order.
type Column struct {
	Canonical string
	Synonyms  []string
}

// Error reports a required column missing from a tabular source. It aborts
// the whole run, naming the offending source for the caller.
type Error struct {
	Source string // "survey" or "event log"
	Column string // canonical name of the missing column
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s input must have a %q column", e.Source, e.Column)
}

// NormalizeHeader canonicalizes a raw header cell for matching: trimmed and
// lower-cased, the same treatment club identities get.
func NormalizeHeader(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Resolve returns the index of the first header satisfying col, and the
// normalized header spelling that matched. Headers must already be
// normalized. Returns -1 when nothing matches.
func Resolve(headers []string, col Column) (int, string) {
	names := append([]string{col.Canonical}, col.Synonyms...)
	for _, name := range names {
		for i, h := range headers {
			if h == name {
				return i, name
			}
		}
	}
	return -1, ""
}

// NormalizeHeaders applies NormalizeHeader to every cell of a header row.
func NormalizeHeaders(row []string) []string {
	out := make([]string, len(row))
	for i, h := range row {
		out[i] = NormalizeHeader(h)
	}
	return out
}
