package vocabulary

import "github.com/IGCrystal-NEO/ewords/pkg/models"

// builtinTable is the minimal vocabulary shipped with the binary. It is used
// only when the default source cannot be loaded from disk, so a fresh install
// still has something to memorize.
var builtinTable = map[string][]string{
	"apple":      {"苹果"},
	"banana":     {"香蕉"},
	"cherry":     {"樱桃"},
	"date":       {"枣"},
	"elderberry": {"接骨木莓"},
	"fig":        {"无花果"},
	"grape":      {"葡萄"},
	"honeydew":   {"哈密瓜"},
	"kiwi":       {"猕猴桃"},
	"lemon":      {"柠檬"},
	"mango":      {"芒果"},
	"nectarine":  {"油桃"},
	"orange":     {"橙子"},
	"papaya":     {"木瓜"},
}

func builtinSource() *Source {
	entries := make(map[string]models.VocabularyEntry, len(builtinTable))
	for word, translations := range builtinTable {
		entries[word] = models.VocabularyEntry{Word: word, Translations: translations}
	}
	return newSource(FallbackName, entries)
}
