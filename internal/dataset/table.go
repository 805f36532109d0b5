// Package dataset reads decision tables from CSV, parses weight and impact
// parameters, and writes the scored result table back out.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

var (
	// ErrFileAccess wraps failures to open the input or write the output.
	ErrFileAccess = errors.New("dataset: file access")

	// ErrParse wraps malformed CSV, weight or impact text.
	ErrParse = errors.New("dataset: parse error")
)

// Table is a parsed CSV: a header row and data rows of equal width.
// The first column identifies the alternative; the rest are criteria.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses CSV from r.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	return &Table{Header: header, Rows: records[1:]}, nil
}

// Load reads the CSV file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileAccess, err)
	}
	defer f.Close()
	return Read(f)
}

// Criteria returns the criterion column names.
func (t *Table) Criteria() []string {
	if len(t.Header) < 2 {
		return nil
	}
	return t.Header[1:]
}

// Matrix converts the table into a decision matrix. Every criterion cell must
// hold a finite number.
func (t *Table) Matrix() (topsis.Matrix, error) {
	if len(t.Header) < topsis.MinCriteria+1 {
		return nil, fmt.Errorf("%w: input must have at least %d columns (first column names, others numeric), got %d",
			topsis.ErrInsufficientCriteria, topsis.MinCriteria+1, len(t.Header))
	}
	if len(t.Rows) == 0 {
		return nil, topsis.ErrNoAlternatives
	}

	m := make(topsis.Matrix, len(t.Rows))
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				topsis.ErrDimensionMismatch, i+1, len(row), len(t.Header))
		}
		values := make([]float64, len(row)-1)
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: column %q row %d has value %q",
					topsis.ErrNonNumericData, t.Header[j+1], i+1, cell)
			}
			values[j] = v
		}
		m[i] = topsis.Alternative{ID: row[0], Values: values}
	}
	return m, nil
}

// FromMatrix builds a table from an in-memory matrix so it can be written
// with the same serializer as an uploaded file.
func FromMatrix(idColumn string, criteria []string, m topsis.Matrix) *Table {
	header := append([]string{idColumn}, criteria...)
	rows := make([][]string, len(m))
	for i, alt := range m {
		row := make([]string, 0, len(alt.Values)+1)
		row = append(row, alt.ID)
		for _, v := range alt.Values {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		rows[i] = row
	}
	return &Table{Header: header, Rows: rows}
}
