package deck_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nam088/drinking-game-v2/deck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadSeedRecords_NoFiles(t *testing.T) {
	_, _, err := deck.LoadSeedRecords(t.TempDir())
	require.ErrorIs(t, err, deck.ErrNoDataFile)
}

func TestLoadSeedRecords_PrefersCSVOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv", "Category,Content,Penalty,Difficulty\nDARE,From CSV,Drink 1,FUN\n")
	writeFile(t, dir, "data.json", `[{"id":1,"category":"TRUTH","content":"From JSON","penalty":"","difficulty":"DEEP"}]`)

	records, source, err := deck.LoadSeedRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, "data.csv", source)
	require.Len(t, records, 1)
	assert.Equal(t, "From CSV", records[0].Content)
}

func TestLoadSeedRecords_FallsBackToJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.json", `[
		{"id":1,"category":"ITEM","content":"Shield","penalty":"","difficulty":"TACTICAL"},
		{"id":2,"category":"DARE","content":"Dance","penalty":"Drink 2","difficulty":"FUN"}
	]`)

	records, source, err := deck.LoadSeedRecords(dir)
	require.NoError(t, err)
	assert.Equal(t, "data.json", source)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[0].ID)
	assert.Equal(t, "ITEM", records[0].Category)
	assert.Equal(t, "Dance", records[1].Content)
}

func TestLoadSeedRecords_CSVSkipsRepeatedHeader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv",
		"Category,Content,Penalty,Difficulty\n"+
			"DARE,First,Drink 1,FUN\n"+
			"Category,Content,Penalty,Difficulty\n"+ // header duplicated mid-file
			"TRUTH,Second,Drink 2,HARD\n")

	records, _, err := deck.LoadSeedRecords(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Content)
	assert.Equal(t, "Second", records[1].Content)
}

func TestLoadSeedRecords_CSVLiteralQuotes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv",
		"Category,Content,Penalty,Difficulty\n"+
			`TRUTH,Say so-called "truth" out loud,Drink 1,FUN`+"\n")

	records, _, err := deck.LoadSeedRecords(dir)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Content, `"truth"`)
}

func TestLoadSeedRecords_CSVWithIDColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv",
		"ID,Category,Content,Penalty,Difficulty\n"+
			"7,ITEM,Shield,,TACTICAL\n"+
			",DARE,No id here,Drink 1,FUN\n")

	records, _, err := deck.LoadSeedRecords(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(7), records[0].ID)
	assert.Zero(t, records[1].ID)
}

func TestLoadSeedRecords_CSVMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv", "Category,Content\nDARE,Half a row\n")

	_, source, err := deck.LoadSeedRecords(dir)
	require.Error(t, err)
	assert.Equal(t, "data.csv", source)
}

func TestLoadSeedRecords_BadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.json", "{not json")

	_, source, err := deck.LoadSeedRecords(dir)
	require.Error(t, err)
	assert.Equal(t, "data.json", source)
}
