package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Stock is the remaining count of an item, or unlimited.
type Stock struct {
	limited bool
	count   int
}

// UnlimitedStock never runs out.
func UnlimitedStock() Stock { return Stock{} }

// LimitedStock holds n remaining items.
func LimitedStock(n int) Stock { return Stock{limited: true, count: n} }

// ParseStock accepts an integer or one of the unlimited sentinels
// ("", "null", "unlimited", "무제한").
func ParseStock(raw string) (Stock, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "null", "unlimited", "inf", "무제한":
		return UnlimitedStock(), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Stock{}, fmt.Errorf("%w: stock %q is not a number", ErrDictionaryInvalid, raw)
	}
	return LimitedStock(n), nil
}

// Unlimited reports whether the stock has no limit.
func (s Stock) Unlimited() bool { return !s.limited }

// Count returns the remaining count; meaningless when unlimited.
func (s Stock) Count() int { return s.count }

// Exhausted reports whether a limited stock has nothing left.
func (s Stock) Exhausted() bool { return s.limited && s.count <= 0 }

func (s Stock) String() string {
	if !s.limited {
		return "unlimited"
	}
	return strconv.Itoa(s.count)
}

// Sale statuses that take an entry off the menu.
var stoppedSaleStatuses = map[string]bool{
	"stopped":  true,
	"soldout":  true,
	"off":      true,
	"판매중지": true,
	"품절":     true,
}

// KeywordEntry is one canonical keyword and the surface forms resolving to it.
type KeywordEntry struct {
	Name       string
	Variations []string
	Stock      Stock
	Code       string
	SaleStatus string
}

// Candidates returns the canonical name followed by its variations.
func (e KeywordEntry) Candidates() []string {
	out := make([]string, 0, len(e.Variations)+1)
	out = append(out, e.Name)
	for _, v := range e.Variations {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Unavailable returns a non-empty reason when the entry cannot be ordered.
func (e KeywordEntry) Unavailable() string {
	if stoppedSaleStatuses[strings.ToLower(strings.TrimSpace(e.SaleStatus))] {
		return "sale stopped"
	}
	if e.Stock.Exhausted() {
		return "out of stock"
	}
	return ""
}

// CategoryDictionary maps canonical names to entries, ordered by descending
// canonical-name length so longer keywords are tried first. Entries of equal
// length keep their source order.
type CategoryDictionary struct {
	category Category
	entries  []KeywordEntry
	index    map[string]int
}

// NewCategoryDictionary validates and orders entries for one category.
func NewCategoryDictionary(category Category, entries []KeywordEntry) (*CategoryDictionary, error) {
	sorted := make([]KeywordEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Name) > utf8.RuneCountInString(sorted[j].Name)
	})

	index := make(map[string]int, len(sorted))
	for i, e := range sorted {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: %s has an entry without a keyword", ErrDictionaryInvalid, category)
		}
		if _, dup := index[e.Name]; dup {
			return nil, fmt.Errorf("%w: %s keyword %q is defined twice", ErrDictionaryInvalid, category, e.Name)
		}
		if e.Code != "" && !validCode(e.Code, codeWidth(category)) {
			return nil, fmt.Errorf("%w: %s keyword %q: code %q is not a %d-digit number", ErrDictionaryInvalid, category, e.Name, e.Code, codeWidth(category))
		}
		index[e.Name] = i
	}

	return &CategoryDictionary{category: category, entries: sorted, index: index}, nil
}

// codeWidth is the option code field width of a category: three digits for
// the menu, one for everything else.
func codeWidth(c Category) int {
	if c == CategoryMenu {
		return 3
	}
	return 1
}

func validCode(code string, width int) bool {
	if len(code) != width {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Category returns the category the dictionary belongs to.
func (d *CategoryDictionary) Category() Category { return d.category }

// Entries returns the entries in matching order. Callers must not modify it.
func (d *CategoryDictionary) Entries() []KeywordEntry {
	if d == nil {
		return nil
	}
	return d.entries
}

// Len returns the number of canonical keywords.
func (d *CategoryDictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Lookup returns the entry for a canonical name.
func (d *CategoryDictionary) Lookup(name string) (KeywordEntry, bool) {
	if d == nil {
		return KeywordEntry{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return KeywordEntry{}, false
	}
	return d.entries[i], true
}

// Position returns the 1-based position of name in the dictionary order,
// or 0 when name is empty or unknown.
func (d *CategoryDictionary) Position(name string) int {
	if d == nil || name == "" {
		return 0
	}
	i, ok := d.index[name]
	if !ok {
		return 0
	}
	return i + 1
}

// Dictionary is the full, read-only keyword set shared by all conversations.
type Dictionary struct {
	categories map[Category]*CategoryDictionary
	source     string
	loadedAt   time.Time
}

// NewDictionary builds a dictionary from per-category entries, rejecting a
// set that lacks any required category.
func NewDictionary(source string, entries map[Category][]KeywordEntry) (*Dictionary, error) {
	for _, c := range requiredCategories {
		if _, ok := entries[c]; !ok {
			return nil, fmt.Errorf("%w: missing category %q", ErrDictionaryInvalid, c)
		}
	}

	d := &Dictionary{
		categories: make(map[Category]*CategoryDictionary, len(entries)),
		source:     source,
		loadedAt:   time.Now(),
	}
	for c, list := range entries {
		if c < 0 || c >= categoryCount {
			return nil, fmt.Errorf("%w: %v", ErrUnknownCategory, c)
		}
		cd, err := NewCategoryDictionary(c, list)
		if err != nil {
			return nil, err
		}
		d.categories[c] = cd
	}
	return d, nil
}

// Category returns the dictionary for c. Absent optional categories yield
// an empty dictionary, never nil.
func (d *Dictionary) Category(c Category) *CategoryDictionary {
	if cd, ok := d.categories[c]; ok {
		return cd
	}
	return &CategoryDictionary{category: c, index: map[string]int{}}
}

// Source describes where the dictionary was loaded from.
func (d *Dictionary) Source() string { return d.source }

// LoadedAt returns the load time.
func (d *Dictionary) LoadedAt() time.Time { return d.loadedAt }

// Counts returns the number of keywords per loaded category.
func (d *Dictionary) Counts() map[Category]int {
	out := make(map[Category]int, len(d.categories))
	for c, cd := range d.categories {
		out[c] = cd.Len()
	}
	return out
}
