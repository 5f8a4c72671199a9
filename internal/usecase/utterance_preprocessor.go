package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/orderlens/backend/internal/domain"
	"golang.org/x/text/unicode/norm"
)

// Compiled patterns for utterance cleanup
var (
	// Everything that is not a letter, digit, whitespace or percent sign.
	// "%" survives for caffeine levels like "15%".
	utterancePunctuation = regexp.MustCompile(`[^\p{L}\p{N}\s%]`)

	utteranceSpaces = regexp.MustCompile(`\s+`)
)

// defaultMaxUtteranceRunes bounds the matcher's quadratic worst case.
const defaultMaxUtteranceRunes = 200

// UtterancePreprocessor cleans raw utterances before keyword matching
type UtterancePreprocessor struct {
	maxRunes int
}

// NewUtterancePreprocessor creates a preprocessor rejecting utterances longer
// than maxRunes after cleanup. Zero or negative selects the default.
func NewUtterancePreprocessor(maxRunes int) *UtterancePreprocessor {
	if maxRunes <= 0 {
		maxRunes = defaultMaxUtteranceRunes
	}
	return &UtterancePreprocessor{maxRunes: maxRunes}
}

// Clean normalises an utterance:
//  1. NFC composition, so conjoining jamo typed by some IMEs become syllables
//  2. punctuation replaced by spaces
//  3. lower-casing and whitespace collapsing
func (p *UtterancePreprocessor) Clean(utterance string) (string, error) {
	cleaned := norm.NFC.String(utterance)
	cleaned = utterancePunctuation.ReplaceAllString(cleaned, " ")
	cleaned = strings.ToLower(cleaned)
	cleaned = utteranceSpaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", fmt.Errorf("%w: empty utterance", domain.ErrInvalidRequest)
	}
	if n := utf8.RuneCountInString(cleaned); n > p.maxRunes {
		return "", fmt.Errorf("%w: %d characters (max %d)", domain.ErrUtteranceTooLong, n, p.maxRunes)
	}
	return cleaned, nil
}

// Words splits a cleaned utterance on whitespace for the tokenized matcher.
func Words(cleaned string) []string {
	return strings.Fields(cleaned)
}
