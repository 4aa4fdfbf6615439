// Package telugu classifies Unicode code points against the fixed base
// alphabet of the tokenizer: ASCII, extended ASCII, and the Telugu block
// (U+0C00–U+0C7F), and validates the multi-code-point consonant clusters
// that are treated as single base symbols.
package telugu

// Script identifies which part of the base alphabet a code point belongs to.
type Script int

const (
	ScriptUnknown Script = iota
	ScriptASCII
	ScriptExtendedASCII
	ScriptTelugu
)

// Virama is the Telugu virama (pulli) combining mark. A consonant followed
// by the virama and another consonant renders as a single conjunct glyph.
const Virama rune = 0x0C4D

// Classify returns the script class of r. Code points outside all three
// ranges classify as ScriptUnknown; they are not errors, the tokenizer
// maps them to its unknown sentinel.
func Classify(r rune) Script {
	switch {
	case r <= 0x7F:
		return ScriptASCII
	case r <= 0xFF:
		return ScriptExtendedASCII
	case r >= 0x0C00 && r <= 0x0C7F:
		return ScriptTelugu
	default:
		return ScriptUnknown
	}
}

// IsConsonant reports whether r is a Telugu consonant (క to హ).
// U+0C29 is unassigned and excluded.
func IsConsonant(r rune) bool {
	return (r >= 0x0C15 && r <= 0x0C28) || (r >= 0x0C2A && r <= 0x0C39)
}

// IsVowelSign reports whether r is a Telugu dependent vowel sign
// (ా to ౄ, ె to ై, ొ to ౌ). The virama is not a vowel sign.
func IsVowelSign(r rune) bool {
	return (r >= 0x0C3E && r <= 0x0C44) ||
		(r >= 0x0C46 && r <= 0x0C48) ||
		(r >= 0x0C4A && r <= 0x0C4C)
}

// IsValidCluster reports whether rs forms a valid Telugu cluster:
// consonant + vowel sign (length 2) or consonant + virama + consonant
// (length 3). Any other sequence, including other lengths, is invalid.
func IsValidCluster(rs []rune) bool {
	switch len(rs) {
	case 2:
		return IsConsonant(rs[0]) && IsVowelSign(rs[1])
	case 3:
		return IsConsonant(rs[0]) && rs[1] == Virama && IsConsonant(rs[2])
	default:
		return false
	}
}

// Consonants returns every Telugu consonant in ascending code-point order.
func Consonants() []rune {
	out := make([]rune, 0, 36)
	for r := rune(0x0C15); r <= 0x0C39; r++ {
		if IsConsonant(r) {
			out = append(out, r)
		}
	}
	return out
}

// VowelSigns returns every Telugu dependent vowel sign in ascending
// code-point order.
func VowelSigns() []rune {
	out := make([]rune, 0, 13)
	for r := rune(0x0C3E); r <= 0x0C4C; r++ {
		if IsVowelSign(r) {
			out = append(out, r)
		}
	}
	return out
}
