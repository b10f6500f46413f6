package vocabulary

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/IGCrystal-NEO/ewords/pkg/models"
)

// loadFile parses a source file into entries. Column layout for both
// formats: word in the first column, translations in the second, additional
// translations separated by ";" or "/".
func loadFile(path string) (map[string]models.VocabularyEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	default:
		return loadExcel(path)
	}
}

func loadExcel(path string) (map[string]models.VocabularyEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceParse, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrSourceParse, path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read rows of %s: %v", ErrSourceParse, path, err)
	}

	entries := make(map[string]models.VocabularyEntry)
	for _, row := range rows {
		addRow(entries, row)
	}
	return entries, nil
}

func loadCSV(path string) (map[string]models.VocabularyEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSourceParse, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	entries := make(map[string]models.VocabularyEntry)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrSourceParse, path, err)
		}
		addRow(entries, row)
	}
	return entries, nil
}

// addRow records one word row, silently skipping rows without both a word
// and a translation (headers, topic separators, blank lines).
func addRow(entries map[string]models.VocabularyEntry, row []string) {
	if len(row) < 2 {
		return
	}
	word := cleanWord(row[0])
	translations := splitTranslations(row[1])
	if word == "" || len(translations) == 0 {
		return
	}
	entries[word] = models.VocabularyEntry{Word: word, Translations: translations}
}

// cleanWord strips surrounding whitespace and trailing parenthetical
// annotations such as "go (went, gone)".
func cleanWord(word string) string {
	if idx := strings.Index(word, "("); idx > 0 {
		word = word[:idx]
	}
	return strings.TrimSpace(word)
}

func splitTranslations(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '/' || r == '；'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
