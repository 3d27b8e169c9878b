// Package normalize implements the canonical-form text normalizer that feeds
// every later sandbox check. It is the only component permitted to see raw,
// possibly-adversarial command text; everything downstream trusts its output.
package normalize

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrNonASCII is returned when the normalized form still contains a
// non-ASCII byte after NFKD decomposition, width folding, and zero-width
// stripping. Callers surface this as error_kind "non_ascii_command".
var ErrNonASCII = fmt.Errorf("non_ascii_command")

// Command reduces raw to its canonical form: NFKD decomposition, fullwidth/
// halfwidth folding, deletion of zero-width and other format-category runes,
// then a hard ASCII check. No later phase re-examines raw; this is the sole
// place Unicode evasions (homoglyphs, zero-width splitting) are defeated.
func Command(raw string) (string, error) {
	folded := width.Fold.String(raw)
	decomposed := norm.NFKD.String(folded)

	stripped := make([]rune, 0, len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		if isBOM(r) {
			continue
		}
		stripped = append(stripped, r)
	}

	out := string(stripped)
	if !isASCII(out) {
		return "", ErrNonASCII
	}
	return out, nil
}

// isBOM reports whether r is a byte-order-mark / zero-width-no-break-space
// codepoint. unicode.Cf already covers most format controls, but U+FEFF is
// classified Cf only in some Unicode versions bundled with the runtime, so it
// is checked explicitly for safety.
func isBOM(r rune) bool {
	return r == '﻿'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
