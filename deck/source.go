package deck

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrNoDataFile is returned when neither seed source exists in the data dir.
var ErrNoDataFile = errors.New("no data file found (data.csv or data.json)")

const (
	csvFileName  = "data.csv"
	jsonFileName = "data.json"
)

// LoadSeedRecords loads the seed records from dataDir. data.csv takes
// priority over data.json; the returned source name says which one was
// used. Returns ErrNoDataFile when neither is present.
func LoadSeedRecords(dataDir string) ([]SeedRecord, string, error) {
	csvPath := filepath.Join(dataDir, csvFileName)
	if _, err := os.Stat(csvPath); err == nil {
		records, err := loadCSV(csvPath)
		if err != nil {
			return nil, csvFileName, err
		}
		return records, csvFileName, nil
	}

	jsonPath := filepath.Join(dataDir, jsonFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		records, err := loadJSON(jsonPath)
		if err != nil {
			return nil, jsonFileName, err
		}
		return records, jsonFileName, nil
	}

	return nil, "", ErrNoDataFile
}

// loadCSV parses the tabular source. The file is hand-maintained: free-text
// fields may contain literal quote characters (so quoting is relaxed), the
// header row may repeat mid-file, and an optional ID column may be present.
func loadCSV(path string) ([]SeedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")] = i
	}
	for _, required := range []string{"Category", "Content", "Penalty", "Difficulty"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []SeedRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		category := field(row, "Category")
		if category == "" || category == "Category" {
			// Blank line or the header row repeated mid-file.
			continue
		}

		rec := SeedRecord{
			Category:   category,
			Content:    field(row, "Content"),
			Penalty:    field(row, "Penalty"),
			Difficulty: field(row, "Difficulty"),
		}
		if _, ok := cols["ID"]; ok {
			if id, err := strconv.ParseInt(field(row, "ID"), 10, 64); err == nil {
				rec.ID = id
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

type jsonRecord struct {
	ID         int64  `json:"id"`
	Category   string `json:"category"`
	Content    string `json:"content"`
	Penalty    string `json:"penalty"`
	Difficulty string `json:"difficulty"`
}

// loadJSON parses the structured source: a list of objects with lowercase
// keys, as produced by the csv-to-json converter.
func loadJSON(path string) ([]SeedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []jsonRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	records := make([]SeedRecord, len(raw))
	for i, r := range raw {
		records[i] = SeedRecord{
			ID:         r.ID,
			Category:   r.Category,
			Content:    r.Content,
			Penalty:    r.Penalty,
			Difficulty: r.Difficulty,
		}
	}
	return records, nil
}
