package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/docgraph/pkg/document"
)

// FormatValue renders a scalar for display inside a leaf annotation.
//
// Booleans and numbers are shown bare (lower-cased, so "TRUE" reads
// "true"), null is shown as null, and everything else is wrapped in double
// quotes unless it already is. A number must be the whole text: " 5 " and
// "3 apples" are quoted.
func FormatValue(v document.Value) string {
	if document.IsNull(v) {
		return "null"
	}
	return formatText(v.Text())
}

func formatText(s string) string {
	if isBoolText(s) || isNumericText(s) {
		return strings.ToLower(s)
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s
	}
	return `"` + s + `"`
}

func isBoolText(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

func isNumericText(s string) bool {
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return true
	}
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// keyLabel is the content of a key annotation.
func keyLabel(key string) string { return key + ":" }

// badge is the child count annotation of a group node.
func badge(n int) string { return "{" + strconv.Itoa(n) + "}" }

// mergedLine is one "key: value" line of a leaf's merged content.
func mergedLine(key string, v document.Value) string {
	if document.IsNull(v) {
		return key + ": null"
	}
	return key + ": " + v.Text()
}
