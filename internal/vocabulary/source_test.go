package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(content), 0644))
}

func writeXLSX(t *testing.T, dir, name string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", axis, cell))
		}
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name+".xlsx")))
}

func TestSnapshotFallsBackToBuiltin(t *testing.T) {
	m := NewManager(t.TempDir(), "missing")

	src, defaulted := m.Snapshot()
	assert.True(t, defaulted, "first operation should report the implicit default")
	assert.Equal(t, FallbackName, src.Name())
	assert.Equal(t, len(builtinTable), src.Len())

	translations, ok := src.TranslationsFor("apple")
	require.True(t, ok)
	assert.Equal(t, []string{"苹果"}, translations)

	// The notice fires only once.
	_, defaulted = m.Snapshot()
	assert.False(t, defaulted)
}

func TestSnapshotActivatesDefaultFromDisk(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "CET4", "abandon,放弃\nability,能力;才能\n")
	m := NewManager(dir, "")

	src, defaulted := m.Snapshot()
	assert.True(t, defaulted)
	assert.Equal(t, "CET4", src.Name())
	require.Equal(t, 2, src.Len())

	translations, ok := src.TranslationsFor("ability")
	require.True(t, ok)
	assert.Equal(t, []string{"能力", "才能"}, translations)
}

func TestActivateMissingKeepsPreviousSource(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "fruits", "apple,苹果\n")
	m := NewManager(dir, "fruits")

	require.NoError(t, m.Activate("fruits"))

	err := m.Activate("nope")
	require.ErrorIs(t, err, ErrSourceNotFound)

	src, defaulted := m.Snapshot()
	assert.False(t, defaulted)
	assert.Equal(t, "fruits", src.Name(), "failed switch must not replace the active source")
	_, ok := src.TranslationsFor("apple")
	assert.True(t, ok)
}

func TestActivateMalformedKeepsPreviousSource(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "fruits", "apple,苹果\n")
	writeCSV(t, dir, "empty", "word-without-translation\n")
	m := NewManager(dir, "fruits")
	require.NoError(t, m.Activate("fruits"))

	err := m.Activate("empty")
	require.ErrorIs(t, err, ErrSourceParse)

	src, _ := m.Snapshot()
	assert.Equal(t, "fruits", src.Name())
}

func TestLoadXLSX(t *testing.T) {
	dir := t.TempDir()
	writeXLSX(t, dir, "CET6", [][]string{
		{"abate", "减轻;减退"},
		{"go (went, gone)", "去"},
		{"", "skipped"},
	})
	m := NewManager(dir, "CET6")

	src, err := m.Load("CET6")
	require.NoError(t, err)

	translations, ok := src.TranslationsFor("abate")
	require.True(t, ok)
	assert.Equal(t, []string{"减轻", "减退"}, translations)

	// Parenthetical annotations are stripped from the word.
	_, ok = src.TranslationsFor("go")
	assert.True(t, ok)
}

func TestListAvailableAlwaysIncludesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "CET4", "a,甲\n")
	writeXLSX(t, dir, "TOEFL", [][]string{{"b", "乙"}})
	m := NewManager(dir, "")

	names := m.ListAvailable()
	assert.Contains(t, names, FallbackName)
	assert.Contains(t, names, "CET4")
	assert.Contains(t, names, "TOEFL")

	empty := NewManager(t.TempDir(), "")
	assert.Equal(t, []string{FallbackName}, empty.ListAvailable())
}

func TestLoadBuiltinByName(t *testing.T) {
	m := NewManager(t.TempDir(), "")
	src, err := m.Load(FallbackName)
	require.NoError(t, err)
	assert.Equal(t, len(builtinTable), src.Len())
}

func TestSplitTranslations(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitTranslations("a;b/c"))
	assert.Equal(t, []string{"甲", "乙"}, splitTranslations("甲；乙"))
	assert.Empty(t, splitTranslations(" ; "))
}
