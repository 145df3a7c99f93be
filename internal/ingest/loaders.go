package ingest

import (
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// LoadResult tags the parsed rows with the loader strategy that produced
// them.
type LoadResult struct {
	Rows   []map[string]any
	Source string
}

type loader struct {
	name string
	fn   func(path string) ([]map[string]any, error)
}

// Strategies are tried in order; the first success wins. The catalog arrives
// in whichever of these formats the export pipeline last produced.
var loaders = []loader{
	{"gzip-json", loadGzipJSON},
	{"json", loadJSON},
	{"csv", loadCSV},
	{"xlsx", loadXLSX},
}

// LoadRows reads raw catalog rows from path by trying each loader strategy
// in sequence.
func LoadRows(path string) (LoadResult, error) {
	var attempts []string
	for _, l := range loaders {
		rows, err := l.fn(path)
		if err != nil {
			attempts = append(attempts, fmt.Sprintf("%s: %v", l.name, err))
			continue
		}
		logrus.WithFields(logrus.Fields{"source": l.name, "rows": len(rows)}).Info("catalog loaded")
		return LoadResult{Rows: rows, Source: l.name}, nil
	}
	return LoadResult{}, fmt.Errorf("no loader accepted %s: %s", path, strings.Join(attempts, "; "))
}

func loadGzipJSON(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return decodeJSONRows(gz)
}

func loadJSON(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeJSONRows(f)
}

func decodeJSONRows(r io.Reader) ([]map[string]any, error) {
	var rows []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func loadCSV(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("empty csv")
	}
	return rowsFromTable(all), nil
}

func loadXLSX(path string) ([]map[string]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(all) < 1 {
		return nil, fmt.Errorf("empty sheet")
	}
	return rowsFromTable(all), nil
}

// rowsFromTable converts a header row plus data rows into keyed maps. Short
// rows are tolerated; missing cells simply stay absent.
func rowsFromTable(table [][]string) []map[string]any {
	header := table[0]
	rows := make([]map[string]any, 0, len(table)-1)
	for _, line := range table[1:] {
		row := map[string]any{}
		for i, cell := range line {
			if i >= len(header) {
				break
			}
			key := strings.TrimSpace(header[i])
			if key == "" {
				continue
			}
			row[key] = cell
		}
		rows = append(rows, row)
	}
	return rows
}
