package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

func TestLoadFunds(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "funds.csv"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Fund Name", "P1", "P2", "P3", "P4", "P5"}, tbl.Header)
	assert.Equal(t, []string{"P1", "P2", "P3", "P4", "P5"}, tbl.Criteria())
	require.Len(t, tbl.Rows, 8)

	m, err := tbl.Matrix()
	require.NoError(t, err)
	assert.Equal(t, "M5", m[4].ID)
	assert.Equal(t, []float64{1.2, 1.03, 8.0, 59.2, 17.04}, m[4].Values)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrFileAccess)
}

func TestReadErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrParse)
	})
	t.Run("ragged", func(t *testing.T) {
		_, err := Read(strings.NewReader("a,b,c\nx,1,2\ny,1\n"))
		assert.ErrorIs(t, err, ErrParse)
	})
}

func TestReadStripsBOM(t *testing.T) {
	tbl, err := Read(strings.NewReader("\ufeffName,A,B\nx,1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "Name", tbl.Header[0])
}

func TestMatrixNonNumeric(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "nonnumeric.csv"))
	require.NoError(t, err)

	_, err = tbl.Matrix()
	require.ErrorIs(t, err, topsis.ErrNonNumericData)
	assert.Contains(t, err.Error(), `"P2"`)
	assert.Contains(t, err.Error(), `"high"`)
}

func TestMatrixRejectsNonFiniteText(t *testing.T) {
	tbl, err := Read(strings.NewReader("Name,A,B\nx,1,NaN\ny,2,3\n"))
	require.NoError(t, err)
	_, err = tbl.Matrix()
	assert.ErrorIs(t, err, topsis.ErrNonNumericData)
}

func TestMatrixTooFewColumns(t *testing.T) {
	tbl, err := Load(filepath.Join("testdata", "two_columns.csv"))
	require.NoError(t, err)
	_, err = tbl.Matrix()
	assert.ErrorIs(t, err, topsis.ErrInsufficientCriteria)
}

func TestMatrixRaggedRow(t *testing.T) {
	tbl := &Table{
		Header: []string{"Name", "A", "B"},
		Rows:   [][]string{{"x", "1", "2", "3"}, {"y", "2", "3"}},
	}
	_, err := tbl.Matrix()
	assert.ErrorIs(t, err, topsis.ErrDimensionMismatch)
}

func TestMatrixNoRows(t *testing.T) {
	tbl, err := Read(strings.NewReader("Name,A,B\n"))
	require.NoError(t, err)
	_, err = tbl.Matrix()
	assert.ErrorIs(t, err, topsis.ErrNoAlternatives)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name     string
		weights  string
		impacts  string
		criteria int
		wantErr  error
	}{
		{"ok", "1,1,1,2,1", "+,+,+,-,+", 5, nil},
		{"spaces", " 1, 2 ,3", "+, -,+", 3, nil},
		{"four weights", "1,1,1,2", "+,+,+,-,+", 5, topsis.ErrDimensionMismatch},
		{"impact count", "1,1,1", "+,+", 3, topsis.ErrDimensionMismatch},
		{"bad weight", "1,x,1", "+,+,+", 3, ErrParse},
		{"empty weight token", "1,,1", "+,+,+", 3, ErrParse},
		{"bad impact", "1,1,1", "+,*,+", 3, topsis.ErrInvalidImpact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, imp, err := ParseParams(tt.weights, tt.impacts, tt.criteria)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, w, tt.criteria)
			assert.Len(t, imp, tt.criteria)
		})
	}
}

func TestParseWeightsAndImpacts(t *testing.T) {
	w, err := ParseWeights("1,1,1,2,1")
	require.NoError(t, err)
	assert.Equal(t, topsis.Weights{1, 1, 1, 2, 1}, w)

	imp, err := ParseImpacts("+,+,+,-,+")
	require.NoError(t, err)
	assert.Equal(t, topsis.Impacts{topsis.Benefit, topsis.Benefit, topsis.Benefit, topsis.Cost, topsis.Benefit}, imp)

	_, err = ParseWeights("")
	assert.ErrorIs(t, err, ErrParse)
	_, err = ParseImpacts("  ")
	assert.ErrorIs(t, err, ErrParse)
}

func computeFunds(t *testing.T) (*Table, *topsis.Result) {
	t.Helper()
	tbl, err := Load(filepath.Join("testdata", "funds.csv"))
	require.NoError(t, err)
	m, err := tbl.Matrix()
	require.NoError(t, err)
	w, imp, err := ParseParams("1,1,1,2,1", "+,+,+,-,+", len(tbl.Criteria()))
	require.NoError(t, err)
	res, err := topsis.Compute(m, w, imp)
	require.NoError(t, err)
	return tbl, res
}

func TestWriteResult(t *testing.T) {
	tbl, res := computeFunds(t)

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, tbl, res, DefaultPrecision))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Fund Name,P1,P2,P3,P4,P5,Topsis Score,Rank", lines[0])
	assert.Equal(t, "M1,0.49,0.23,6.4,42.5,12.42,0.3113,6", lines[1])
	assert.Equal(t, "M2,0.7,0.4,4.1,36.0,9.79,0.3984,4", lines[2])
	assert.Equal(t, "M5,1.2,1.03,8.0,59.2,17.04,0.6302,2", lines[5])
	assert.Equal(t, "M8,1.22,1.2,3.9,34.6,10.94,0.7021,1", lines[8])
}

func TestWriteResultPrecision(t *testing.T) {
	tbl, res := computeFunds(t)
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, tbl, res, 2))
	assert.Contains(t, buf.String(), "M8,1.22,1.2,3.9,34.6,10.94,0.70,1")
}

func TestWriteResultRowMismatch(t *testing.T) {
	tbl, res := computeFunds(t)
	tbl.Rows = tbl.Rows[:3]
	err := WriteResult(&bytes.Buffer{}, tbl, res, DefaultPrecision)
	assert.ErrorIs(t, err, topsis.ErrDimensionMismatch)
}

func TestWriteFile(t *testing.T) {
	tbl, res := computeFunds(t)
	out := filepath.Join(t.TempDir(), "result.csv")

	require.NoError(t, WriteFile(out, tbl, res, DefaultPrecision))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Fund Name,P1,P2,P3,P4,P5,Topsis Score,Rank\n"))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteFileUnwritable(t *testing.T) {
	tbl, res := computeFunds(t)
	out := filepath.Join(t.TempDir(), "missing-dir", "result.csv")

	err := WriteFile(out, tbl, res, DefaultPrecision)
	assert.ErrorIs(t, err, ErrFileAccess)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFromMatrix(t *testing.T) {
	m := topsis.Matrix{
		{ID: "a", Values: []float64{1.5, 2}},
		{ID: "b", Values: []float64{3, 0.25}},
	}
	tbl := FromMatrix("Alternative", []string{"speed", "cost"}, m)
	assert.Equal(t, []string{"Alternative", "speed", "cost"}, tbl.Header)
	assert.Equal(t, [][]string{{"a", "1.5", "2"}, {"b", "3", "0.25"}}, tbl.Rows)

	back, err := tbl.Matrix()
	require.NoError(t, err)
	assert.Equal(t, m, back)
}
