// Package naming holds the pure naming function that maps a picture's naming
// inputs to its canonical file base name. Every rename the system ever
// performs is derived from this function, so it must stay deterministic and
// side-effect free.
package naming

import (
	"strconv"
	"strings"
)

const separator = "_"

// FileBase builds the canonical base name for a picture.
//
// Segments are joined with "_" in the order supplier code, product number,
// color, position. Empty segments (no supplier, component-level picture with
// no color) are omitted rather than rendered as empty placeholders.
//
// Normalization rule: letters are lowercased and internal whitespace runs are
// folded to a single underscore. Hyphens are preserved verbatim in every
// segment, colors and supplier codes included; the one rule applies uniformly
// so a name can never depend on which code path produced it.
func FileBase(supplierCode, productNumber, colorName string, order int) string {
	segments := make([]string, 0, 4)
	if s := Normalize(supplierCode); s != "" {
		segments = append(segments, s)
	}
	if p := Normalize(productNumber); p != "" {
		segments = append(segments, p)
	}
	if c := Normalize(colorName); c != "" {
		segments = append(segments, c)
	}
	segments = append(segments, strconv.Itoa(order))
	return strings.Join(segments, separator)
}

// Normalize lowercases a segment and folds internal whitespace to
// underscores. Returns "" for blank input.
func Normalize(segment string) string {
	fields := strings.Fields(strings.ToLower(segment))
	return strings.Join(fields, separator)
}
