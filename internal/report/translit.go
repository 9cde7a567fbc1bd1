package report

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// Placeholder replaces runes the PDF core fonts cannot show.
const Placeholder = '?'

// replacements maps common typographic runes outside cp1252's reach, or
// better rendered as ASCII, before decomposition.
var replacements = map[rune]string{
	'\u2010': "-", '\u2011': "-", '\u2012': "-", '\u2212': "-",
	'\u2009': " ", '\u202f': " ", '\u200b': "",
	'\u2264': "<=", '\u2265': ">=", '\u2192': "->", '\u2190': "<-",
	'\u2713': "v", '\u2714': "v",
}

// Transliterate makes s representable in Windows-1252: encodable runes are kept,
// others are decomposed (NFKD) to their encodable base runes, and anything left
// becomes Placeholder.
func Transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if rep, ok := replacements[r]; ok {
			b.WriteString(rep)
			continue
		}
		if encodable(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString(decompose(r))
	}
	return b.String()
}

func encodable(r rune) bool {
	if r == '\n' || r == '\t' {
		return true
	}
	if unicode.IsControl(r) {
		return false
	}
	_, ok := charmap.Windows1252.EncodeRune(r)
	return ok
}

func decompose(r rune) string {
	var b strings.Builder
	for _, d := range norm.NFKD.String(string(r)) {
		switch {
		case unicode.Is(unicode.Mn, d):
			// combining mark dropped
		case encodable(d):
			b.WriteRune(d)
		}
	}
	if b.Len() == 0 {
		return string(Placeholder)
	}
	return b.String()
}
