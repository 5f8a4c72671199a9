// Package dictionary loads keyword dictionaries from YAML or CSV (a
// spreadsheet export) and keeps the active one swappable at runtime.
package dictionary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/orderlens/backend/internal/domain"
	"gopkg.in/yaml.v3"
)

// Supported source formats
const (
	FormatAuto = "auto"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// LoadFile reads and validates a dictionary file. format may be FormatAuto,
// in which case the extension decides.
func LoadFile(path, format string) (*domain.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	if format == "" || format == FormatAuto {
		format = formatFromExtension(path)
	}

	switch format {
	case FormatYAML:
		return ParseYAML(f, path)
	case FormatCSV:
		return ParseCSV(f, path)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", domain.ErrDictionaryInvalid, format)
	}
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	default:
		return FormatYAML
	}
}

// yamlEntry is one keyword in the YAML format. Variations may be a list or
// a comma-separated string, stock an integer or "unlimited".
type yamlEntry struct {
	Keyword    string    `yaml:"keyword"`
	Variations yaml.Node `yaml:"variations"`
	Stock      yaml.Node `yaml:"stock"`
	Code       string    `yaml:"code"`
	SaleStatus string    `yaml:"saleStatus"`
}

// ParseYAML reads a mapping of category name to keyword list:
//
//	menu:
//	  - keyword: 아메리카노
//	    variations: [아메리카나, americano]
//	    stock: unlimited
func ParseYAML(r io.Reader, source string) (*domain.Dictionary, error) {
	var raw map[string][]yamlEntry
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s is empty", domain.ErrDictionaryInvalid, source)
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDictionaryInvalid, source, err)
	}

	entries := make(map[domain.Category][]domain.KeywordEntry, len(raw))
	for name, list := range raw {
		category, err := domain.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}
		for _, ye := range list {
			entry, err := ye.toEntry()
			if err != nil {
				return nil, fmt.Errorf("%s: %s %q: %w", source, name, ye.Keyword, err)
			}
			entries[category] = append(entries[category], entry)
		}
		if _, ok := entries[category]; !ok {
			entries[category] = nil
		}
	}

	return domain.NewDictionary(source, entries)
}

func (ye yamlEntry) toEntry() (domain.KeywordEntry, error) {
	var variations []string
	switch ye.Variations.Kind {
	case 0:
	case yaml.ScalarNode:
		variations = splitVariations(ye.Variations.Value)
	case yaml.SequenceNode:
		if err := ye.Variations.Decode(&variations); err != nil {
			return domain.KeywordEntry{}, fmt.Errorf("%w: variations: %v", domain.ErrDictionaryInvalid, err)
		}
	default:
		return domain.KeywordEntry{}, fmt.Errorf("%w: variations must be a list or a string", domain.ErrDictionaryInvalid)
	}

	stock, err := domain.ParseStock(ye.Stock.Value)
	if err != nil {
		return domain.KeywordEntry{}, err
	}

	return domain.KeywordEntry{
		Name:       strings.TrimSpace(ye.Keyword),
		Variations: variations,
		Stock:      stock,
		Code:       strings.TrimSpace(ye.Code),
		SaleStatus: strings.TrimSpace(ye.SaleStatus),
	}, nil
}

// CSV columns, in the order the keyword spreadsheet exports them
const (
	colCategory = iota
	colKeyword
	colVariations
	colStock
	colCode
	colSaleStatus
)

// ParseCSV reads one keyword per row:
//
//	category,keyword,variations,stock,code,saleStatus
//	menu,아메리카노,"아메리카나, americano",null,,
//
// A header row starting with "category" is skipped. Any row naming an
// unknown category or carrying a non-numeric stock fails the whole load.
func ParseCSV(r io.Reader, source string) (*domain.Dictionary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	entries := make(map[domain.Category][]domain.KeywordEntry)
	line := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrDictionaryInvalid, source, err)
		}
		if isBlankRow(row) {
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(row[colCategory]), "category") {
			continue
		}
		if len(row) <= colKeyword {
			return nil, fmt.Errorf("%w: %s line %d: need at least category and keyword", domain.ErrDictionaryInvalid, source, line)
		}

		category, err := domain.ParseCategory(strings.TrimSpace(row[colCategory]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, line, err)
		}
		stock, err := domain.ParseStock(column(row, colStock))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, line, err)
		}

		entries[category] = append(entries[category], domain.KeywordEntry{
			Name:       strings.TrimSpace(row[colKeyword]),
			Variations: splitVariations(column(row, colVariations)),
			Stock:      stock,
			Code:       column(row, colCode),
			SaleStatus: column(row, colSaleStatus),
		})
	}

	return domain.NewDictionary(source, entries)
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// splitVariations splits a comma-separated cell, dropping empty items.
func splitVariations(cell string) []string {
	var out []string
	for _, v := range strings.Split(cell, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
