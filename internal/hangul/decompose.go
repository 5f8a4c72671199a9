// Package hangul splits precomposed Hangul syllables into jamo and scores
// string similarity over the decomposed form, so that a misspelled consonant
// or vowel costs one edit instead of a whole syllable.
package hangul

import (
	"strings"
	"unicode"
)

const (
	syllableBase  = 0xAC00
	syllableLast  = 0xD7A3
	medialCount   = 21
	finalCount    = 28
	perInitial    = medialCount * finalCount // 588
	initialsCount = 19
)

var initials = [initialsCount]rune{
	'ㄱ', 'ㄲ', 'ㄴ', 'ㄷ', 'ㄸ', 'ㄹ', 'ㅁ', 'ㅂ', 'ㅃ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅉ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

var medials = [medialCount]rune{
	'ㅏ', 'ㅐ', 'ㅑ', 'ㅒ', 'ㅓ', 'ㅔ', 'ㅕ', 'ㅖ', 'ㅗ', 'ㅘ', 'ㅙ', 'ㅚ', 'ㅛ', 'ㅜ', 'ㅝ', 'ㅞ', 'ㅟ', 'ㅠ', 'ㅡ', 'ㅢ', 'ㅣ',
}

// finals[0] is the empty final consonant.
var finals = [finalCount]rune{
	0, 'ㄱ', 'ㄲ', 'ㄳ', 'ㄴ', 'ㄵ', 'ㄶ', 'ㄷ', 'ㄹ', 'ㄺ', 'ㄻ', 'ㄼ', 'ㄽ', 'ㄾ', 'ㄿ', 'ㅀ', 'ㅁ', 'ㅂ', 'ㅄ', 'ㅅ', 'ㅆ', 'ㅇ', 'ㅈ', 'ㅊ', 'ㅋ', 'ㅌ', 'ㅍ', 'ㅎ',
}

// IsSyllable reports whether r is a precomposed Hangul syllable.
func IsSyllable(r rune) bool {
	return r >= syllableBase && r <= syllableLast
}

// Split returns the initial, medial and final jamo of a syllable. The final
// is 0 when the syllable has none. ok is false for non-syllables.
func Split(r rune) (initial, medial, final rune, ok bool) {
	if !IsSyllable(r) {
		return 0, 0, 0, false
	}
	offset := int(r - syllableBase)
	return initials[offset/perInitial], medials[(offset%perInitial)/finalCount], finals[offset%finalCount], true
}

// AppendRunes appends the decomposition of s to dst.
func AppendRunes(dst []rune, s string) []rune {
	for _, r := range s {
		i, m, f, ok := Split(r)
		if !ok {
			dst = append(dst, r)
			continue
		}
		dst = append(dst, i, m)
		if f != 0 {
			dst = append(dst, f)
		}
	}
	return dst
}

// Runes returns the decomposition of s as a rune slice.
func Runes(s string) []rune {
	return AppendRunes(make([]rune, 0, len(s)), s)
}

// Decompose expands every Hangul syllable of s into its jamo. Other
// characters pass through unchanged.
func Decompose(s string) string {
	return string(Runes(s))
}

// Fold lower-cases and decomposes s, the form all comparisons run on.
func Fold(s string) []rune {
	out := Runes(s)
	for i, r := range out {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// HasSyllables reports whether s contains any precomposed syllable.
func HasSyllables(s string) bool {
	return strings.IndexFunc(s, IsSyllable) >= 0
}
