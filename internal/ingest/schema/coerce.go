package schema

import (
	"strconv"
	"strings"
)

// CoerceNumeric parses a cell into a float. Unparseable values are reported
// as not-ok so aggregators can exclude them from means instead of failing;
// that is a warning condition, never an error. Yes/no style answers map to
// 1/0 so "participated" columns can stand in for participation counts.
func CoerceNumeric(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	switch strings.ToLower(cell) {
	case "yes", "y", "true":
		return 1, true
	case "no", "n", "false":
		return 0, true
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
