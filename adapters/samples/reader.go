package samples

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"climattr/internal/errors"
)

// DataReader loads ALL/NAT sample columns from CSV or Excel files. The
// surrounding pipeline has already done its spatial/temporal filtering; here
// a column is just a flat list of numbers.
type DataReader struct {
	filePath  string
	fileType  string // "xlsx" or "csv"
	allColumn string
	natColumn string
}

// NewDataReader creates a reader for the given file; the column names select
// the factual and counterfactual ensembles
func NewDataReader(filePath, allColumn, natColumn string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{
		filePath:  filePath,
		fileType:  fileType,
		allColumn: allColumn,
		natColumn: natColumn,
	}
}

// Samples reads both sample columns, implementing ports.SampleSource
func (r *DataReader) Samples() (all []float64, nat []float64, err error) {
	rows, err := r.readRows()
	if err != nil {
		return nil, nil, err
	}
	if len(rows) < 2 {
		return nil, nil, errors.DataError(fmt.Sprintf("%s has no data rows", r.filePath))
	}

	header := rows[0]
	allIdx, natIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case r.allColumn:
			allIdx = i
		case r.natColumn:
			natIdx = i
		}
	}
	if allIdx < 0 {
		return nil, nil, errors.DataError(fmt.Sprintf("column %q not found in %s", r.allColumn, r.filePath))
	}
	if natIdx < 0 {
		return nil, nil, errors.DataError(fmt.Sprintf("column %q not found in %s", r.natColumn, r.filePath))
	}

	all, err = r.column(rows[1:], allIdx, r.allColumn)
	if err != nil {
		return nil, nil, err
	}
	nat, err = r.column(rows[1:], natIdx, r.natColumn)
	if err != nil {
		return nil, nil, err
	}
	return all, nat, nil
}

// column extracts one numeric column; blank cells are skipped so the two
// ensembles may differ in length
func (r *DataReader) column(rows [][]string, idx int, name string) ([]float64, error) {
	values := make([]float64, 0, len(rows))
	for rowNum, row := range rows {
		if idx >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.DataError(fmt.Sprintf("column %q row %d: %q is not numeric", name, rowNum+2, cell))
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.DataError(fmt.Sprintf("column %q contains no numeric values", name))
	}
	return values, nil
}

func (r *DataReader) readRows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.DataError(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}
	switch r.fileType {
	case "csv":
		return r.readCSVRows()
	case "xlsx":
		return r.readExcelRows()
	default:
		return nil, errors.DataError(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse CSV file")
	}
	return rows, nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.DataError("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Excel sheet")
	}
	return rows, nil
}
