package exemplars

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCSV reads a (category, example) table from a CSV file with a header
// row. Category order follows first occurrence in the file; phrase order
// follows file order within each category. Rows with an empty example are
// rejected — a blank anchor phrase is a data error, not a degenerate query.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("exemplars: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("exemplars: %s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses a category example table from r. The header must contain
// "category" and "example" columns (case-insensitive, any order).
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	catCol, exCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "category":
			catCol = i
		case "example":
			exCol = i
		}
	}
	if catCol < 0 || exCol < 0 {
		return nil, fmt.Errorf("header must contain category and example columns, got %v", header)
	}

	var table Table
	index := make(map[string]int)
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		category := strings.TrimSpace(record[catCol])
		example := strings.TrimSpace(record[exCol])
		if category == "" {
			return nil, fmt.Errorf("line %d: empty category", line)
		}
		if example == "" {
			return nil, fmt.Errorf("line %d: empty example for category %q", line, category)
		}

		i, ok := index[category]
		if !ok {
			i = len(table)
			index[category] = i
			table = append(table, Entry{Category: category})
		}
		table[i].Phrases = append(table[i].Phrases, example)
	}

	if len(table) == 0 {
		return nil, fmt.Errorf("no example rows")
	}
	return table, nil
}
