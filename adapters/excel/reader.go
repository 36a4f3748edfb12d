// Package excel reads tabular datasets from xlsx and csv files into domain
// tables. It is an input collaborator: it declares a kind for every column
// and rejects rows with missing cells, so no missing values ever reach the
// statistics core.
package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"chorda/domain/core"
	"chorda/domain/table"

	"github.com/xuri/excelize/v2"
)

// TableReader handles reading Excel and CSV files.
type TableReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewTableReader creates a reader for the given file, dispatching on
// extension.
func NewTableReader(filePath string) *TableReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &TableReader{filePath: filePath, fileType: fileType, sheet: "Sheet1"}
}

// Read loads the file into a validated table.
func (r *TableReader) Read() (*table.Table, error) {
	log.Printf("[TableReader] reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	return buildTable(rows)
}

func (r *TableReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.sheet, err)
	}
	return rows, nil
}

func (r *TableReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// buildTable converts header + data rows into kinded columns. A column is
// numeric when every cell parses as a float, categorical otherwise. Any
// empty cell fails the read: missing-value handling belongs to the data
// producer, not the statistics.
func buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) < 2 {
		return nil, core.ErrEmptyInput
	}
	header := rows[0]
	data := rows[1:]

	columns := make([]table.Column, 0, len(header))
	for col, name := range header {
		raw := make([]string, len(data))
		numeric := true
		for i, row := range data {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				return nil, core.NewValidationError(name, fmt.Sprintf("missing value at row %d", i+2))
			}
			raw[i] = strings.TrimSpace(row[col])
			if _, err := strconv.ParseFloat(raw[i], 64); err != nil {
				numeric = false
			}
		}

		c := table.Column{Name: core.VariableKey(name)}
		if numeric {
			c.Kind = table.KindNumeric
			c.Values = make([]float64, len(raw))
			for i, s := range raw {
				c.Values[i], _ = strconv.ParseFloat(s, 64)
			}
		} else {
			c.Kind = table.KindCategorical
			c.Labels = raw
		}
		columns = append(columns, c)
	}

	t, err := table.New(columns...)
	if err != nil {
		return nil, err
	}
	log.Printf("[TableReader] loaded %d rows, %d columns", t.Rows, len(t.Columns))
	return t, nil
}
