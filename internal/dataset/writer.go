package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const (
	ScoreColumn = "Topsis Score"
	RankColumn  = "Rank"

	// DefaultPrecision is the number of decimals written for scores.
	DefaultPrecision = 4
)

// WriteResult writes t with score and rank columns appended, in the original
// row order.
func WriteResult(w io.Writer, t *Table, res *topsis.Result, precision int) error {
	if len(res.Alternatives) != len(t.Rows) {
		return fmt.Errorf("%w: result has %d alternatives, table has %d rows",
			topsis.ErrDimensionMismatch, len(res.Alternatives), len(t.Rows))
	}
	if precision < 0 {
		precision = DefaultPrecision
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(t.Header)+2)
	header = append(header, t.Header...)
	header = append(header, ScoreColumn, RankColumn)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		a := res.Alternatives[i]
		out := make([]string, 0, len(row)+2)
		out = append(out, row...)
		out = append(out,
			strconv.FormatFloat(a.Score, 'f', precision, 64),
			strconv.Itoa(a.Rank),
		)
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeResult renders the result table to memory.
func EncodeResult(t *Table, res *topsis.Result, precision int) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteResult(&buf, t, res, precision); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the result table to path. The table is rendered in full
// before anything touches the filesystem, and the file is renamed into place
// so path never holds a partial table.
func WriteFile(path string, t *Table, res *topsis.Result, precision int) error {
	data, err := EncodeResult(t, res, precision)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".topsis-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileAccess, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)
	_ = tmp.Chmod(0o644)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %v", ErrFileAccess, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrFileAccess, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileAccess, err)
	}
	return nil
}
