package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Kind classifies a column for plotting purposes. Only numeric columns may be
// selected as plot variables.
type Kind string

const (
	KindNumeric Kind = "numeric"
	KindText    Kind = "text"
)

// Column is the fixed identity of one table column: its position in the
// loaded table, its display name, and its inferred kind.
type Column struct {
	Index int
	Name  string
	Kind  Kind
}

// Table holds the loaded morphology dataset: ordered column metadata plus
// column-indexed cell access. Identity is fixed at load time and never
// mutated afterwards.
type Table struct {
	cols   []Column
	byName map[string]int
	nums   [][]float64 // per column; NaN-free, parallel to present flags
	ok     [][]bool    // per column; false marks a missing/unparseable cell
	text   [][]string  // raw cells, per column
	nrows  int
}

// maxSourceColumns caps how many leading CSV fields are read; trailing fields
// beyond this are scratch columns in the source spreadsheet.
const maxSourceColumns = 7

// droppedColumn is removed from the table after load regardless of content.
const droppedColumn = "Source"

// headerRenames maps the raw spreadsheet headers (some with stray trailing
// spaces) to display names.
var headerRenames = map[string]string{
	"Species":               "Species",
	"CerebellumSurfaceArea": "Cerebellum Surface Area",
	"CerebrumSurfaceArea":   "Cerebrum Surface Area",
	"CerebellumVolume":      "Cerebellum Volume",
	"CerebrumVolume":        "Cerebrum Volume",
}

// ErrNoData reports a dataset file that could not be opened.
var ErrNoData = errors.New("dataset not found")

// Load reads the morphology CSV at path and builds a Table. The first
// maxSourceColumns fields are kept; all-empty columns and the Source column
// are dropped; headers are renamed to display names; column kinds are
// inferred (numeric iff every non-empty cell parses as a float).
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: ensure %q is present in the working directory", ErrNoData, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV data from r. Split out of Load so tests and other callers
// can feed in-memory fixtures.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > maxSourceColumns {
		header = header[:maxSourceColumns]
	}
	ncol := len(header)

	names := make([]string, ncol)
	for i, h := range header {
		names[i] = renameHeader(h)
	}

	cells := make([][]string, ncol)
	row := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			cells[j] = append(cells[j], v)
		}
	}

	t := &Table{byName: make(map[string]int), nrows: row}
	for j := 0; j < ncol; j++ {
		if names[j] == droppedColumn || allEmpty(cells[j]) {
			continue
		}
		nums, ok, numeric := parseColumn(cells[j])
		kind := KindText
		if numeric {
			kind = KindNumeric
		}
		idx := len(t.cols)
		t.cols = append(t.cols, Column{Index: idx, Name: names[j], Kind: kind})
		t.byName[names[j]] = idx
		t.nums = append(t.nums, nums)
		t.ok = append(t.ok, ok)
		t.text = append(t.text, cells[j])
	}
	return t, nil
}

func renameHeader(h string) string {
	h = strings.TrimSpace(h)
	if n, ok := headerRenames[h]; ok {
		return n
	}
	return h
}

func allEmpty(col []string) bool {
	for _, v := range col {
		if v != "" {
			return false
		}
	}
	return true
}

// parseColumn parses every non-empty cell as a float. The column is numeric
// only when no non-empty cell fails to parse and at least one succeeds.
func parseColumn(col []string) (nums []float64, ok []bool, numeric bool) {
	nums = make([]float64, len(col))
	ok = make([]bool, len(col))
	parsed := 0
	failed := 0
	for i, v := range col {
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			failed++
			continue
		}
		nums[i] = x
		ok[i] = true
		parsed++
	}
	return nums, ok, parsed > 0 && failed == 0
}

// Columns returns the ordered column metadata.
func (t *Table) Columns() []Column { return t.cols }

// NumCols returns the number of retained columns.
func (t *Table) NumCols() int { return len(t.cols) }

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return t.nrows }

// ColumnName returns the display name of the column at index i.
func (t *Table) ColumnName(i int) string { return t.cols[i].Name }

// ColumnIndex resolves a display name to its column index.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// IsNumeric reports whether the column at index i holds plottable values.
func (t *Table) IsNumeric(i int) bool { return t.cols[i].Kind == KindNumeric }

// Float returns the numeric value at (column name, row), with ok=false for
// missing cells or non-numeric columns.
func (t *Table) Float(name string, row int) (float64, bool) {
	i, found := t.byName[name]
	if !found || t.cols[i].Kind != KindNumeric || row < 0 || row >= t.nrows {
		return 0, false
	}
	return t.nums[i][row], t.ok[i][row]
}

// String returns the raw cell at (column name, row).
func (t *Table) String(name string, row int) string {
	i, found := t.byName[name]
	if !found || row < 0 || row >= t.nrows {
		return ""
	}
	return t.text[i][row]
}

// PairedFloats returns the rows where both named columns have a value, along
// with the value of the label column (e.g. Taxon) for each retained row.
// Rows with either value missing are skipped pairwise.
func (t *Table) PairedFloats(x, y, label string) (xs, ys []float64, labels []string) {
	for row := 0; row < t.nrows; row++ {
		xv, okx := t.Float(x, row)
		yv, oky := t.Float(y, row)
		if !okx || !oky {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
		labels = append(labels, t.String(label, row))
	}
	return xs, ys, labels
}
