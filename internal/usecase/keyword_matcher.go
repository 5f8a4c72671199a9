package usecase

import (
	"github.com/orderlens/backend/internal/domain"
	"github.com/orderlens/backend/internal/hangul"
	"go.uber.org/zap"
)

// DefaultThreshold is the minimum similarity for a keyword to be accepted.
const DefaultThreshold = 0.7

// MatchPolicy selects how a whole-utterance scan picks among candidates.
type MatchPolicy string

const (
	// PolicyBest takes the highest similarity across all candidates of a
	// category. Ties go to the longer canonical keyword.
	PolicyBest MatchPolicy = "best"

	// PolicyFirst takes the first candidate, longest keyword first, whose
	// similarity clears the threshold.
	PolicyFirst MatchPolicy = "first"
)

// MatchConfig holds configuration for the keyword matcher
type MatchConfig struct {
	Threshold          float64
	Policy             MatchPolicy
	EnableDebugLogging bool
}

// KeywordMatcher finds dictionary keywords inside free-form Korean text,
// comparing on the jamo decomposition so spelling and spacing variants still
// resolve. It is stateless and safe for concurrent use.
type KeywordMatcher struct {
	threshold          float64
	policy             MatchPolicy
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewKeywordMatcher creates a matcher with the given configuration
func NewKeywordMatcher(config MatchConfig, logger *zap.Logger) *KeywordMatcher {
	threshold := config.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	policy := config.Policy
	if policy != PolicyFirst {
		policy = PolicyBest
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &KeywordMatcher{
		threshold:          threshold,
		policy:             policy,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger.Named("matcher"),
	}
}

// Threshold returns the acceptance threshold in use.
func (m *KeywordMatcher) Threshold() float64 { return m.threshold }

// Policy returns the whole-utterance policy in use.
func (m *KeywordMatcher) Policy() MatchPolicy { return m.policy }

// Utterance is a cleaned utterance together with its folded jamo form.
type Utterance struct {
	Text string
	Jamo []rune
}

// Prepare folds a cleaned utterance once so every category scan reuses it.
func Prepare(text string) Utterance {
	return Utterance{Text: text, Jamo: hangul.Fold(text)}
}

// FindKeyword scans the whole utterance for the category's keywords.
func (m *KeywordMatcher) FindKeyword(u Utterance, dict *domain.CategoryDictionary) domain.MatchResult {
	return m.findIn(u.Jamo, 0, dict)
}

// FindKeywordBetween scans only u.Jamo[from:to]. Offsets in the result stay
// relative to the whole utterance.
func (m *KeywordMatcher) FindKeywordBetween(u Utterance, from, to int, dict *domain.CategoryDictionary) domain.MatchResult {
	from = max(from, 0)
	to = min(to, len(u.Jamo))
	if from >= to {
		return m.noMatch(dict)
	}
	return m.findIn(u.Jamo[from:to], from, dict)
}

// FindCancelKeyword scans the utterance for a cancellation phrase. It runs
// the same search as FindKeyword against a cancellation dictionary.
func (m *KeywordMatcher) FindCancelKeyword(u Utterance, dict *domain.CategoryDictionary) domain.MatchResult {
	return m.findIn(u.Jamo, 0, dict)
}

func (m *KeywordMatcher) findIn(text []rune, offset int, dict *domain.CategoryDictionary) domain.MatchResult {
	best := m.noMatch(dict)
	bestSim := -1.0

	for _, entry := range dict.Entries() {
		for _, candidate := range entry.Candidates() {
			hit, ok := hangul.Search(text, hangul.Fold(candidate))
			if !ok {
				continue
			}

			if m.policy == PolicyFirst {
				if hit.Similarity >= m.threshold {
					return m.accept(dict, entry.Name, candidate, hit, offset)
				}
				continue
			}

			// strict > keeps the earlier, longer keyword on ties
			if hit.Similarity > bestSim {
				bestSim = hit.Similarity
				best = m.result(dict, entry.Name, hit, offset)
				if m.enableDebugLogging {
					m.logger.Debug("candidate",
						zap.Stringer("category", dict.Category()),
						zap.String("keyword", entry.Name),
						zap.String("variation", candidate),
						zap.Float64("similarity", hit.Similarity))
				}
			}
		}
	}

	if bestSim < m.threshold {
		return m.noMatch(dict)
	}
	if m.enableDebugLogging {
		m.logger.Debug("matched",
			zap.Stringer("category", dict.Category()),
			zap.String("keyword", best.Keyword),
			zap.Float64("similarity", best.Similarity))
	}
	return best
}

// FindBestMatch compares a single pre-tokenized word against every
// candidate of the category as a whole string and returns the most similar
// keyword if it clears the threshold. An exact canonical name wins at once.
func (m *KeywordMatcher) FindBestMatch(word string, dict *domain.CategoryDictionary) domain.MatchResult {
	best := m.noMatch(dict)
	if word == "" {
		return best
	}

	folded := hangul.Fold(word)
	bestSim := -1.0
	for _, entry := range dict.Entries() {
		if word == entry.Name {
			return domain.MatchResult{
				Category: dict.Category(), Field: dict.Category().String(),
				Keyword: entry.Name, Similarity: 1.0, End: len(folded),
			}
		}
		for _, candidate := range entry.Candidates() {
			sim := hangul.RuneSimilarity(folded, hangul.Fold(candidate))
			if sim > bestSim {
				bestSim = sim
				best = domain.MatchResult{
					Category: dict.Category(), Field: dict.Category().String(),
					Keyword: entry.Name, Similarity: sim, End: len(folded),
				}
			}
		}
	}

	if bestSim < m.threshold {
		return m.noMatch(dict)
	}
	return best
}

func (m *KeywordMatcher) accept(dict *domain.CategoryDictionary, keyword, candidate string, hit hangul.Hit, offset int) domain.MatchResult {
	if m.enableDebugLogging {
		m.logger.Debug("matched",
			zap.Stringer("category", dict.Category()),
			zap.String("keyword", keyword),
			zap.String("variation", candidate),
			zap.Float64("similarity", hit.Similarity))
	}
	return m.result(dict, keyword, hit, offset)
}

func (m *KeywordMatcher) result(dict *domain.CategoryDictionary, keyword string, hit hangul.Hit, offset int) domain.MatchResult {
	return domain.MatchResult{
		Category:   dict.Category(),
		Field:      dict.Category().String(),
		Keyword:    keyword,
		Similarity: hit.Similarity,
		Start:      hit.Start + offset,
		End:        hit.End + offset,
	}
}

func (m *KeywordMatcher) noMatch(dict *domain.CategoryDictionary) domain.MatchResult {
	return domain.MatchResult{Category: dict.Category(), Field: dict.Category().String()}
}
