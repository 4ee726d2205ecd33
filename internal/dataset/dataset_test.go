package dataset

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

var csvRows = []string{
	"Species ,CerebellumSurfaceArea,CerebrumSurfaceArea,CerebellumVolume ,CerebrumVolume,Taxon,Source,Scratch",
	"Homo sapiens,42.5,1000.5,120.2,1200.1,Hominidae,Smith 2001,x",
	"Pan troglodytes,30.1,600.3,70.4,350.2,Hominidae,,x",
	"Hylobates lar,,200.0,15.5,90.3,Hylobatidae,Jones 1999,x",
	"Macaca mulatta,10.2,150.8,9.8,85.0,Cercopithecidae,,x",
}

func fixture(t *testing.T) *Table {
	t.Helper()
	table, err := Read(strings.NewReader(strings.Join(csvRows, "\n")))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return table
}

func TestReadColumnsAndKinds(t *testing.T) {
	table := fixture(t)

	wantNames := []string{
		"Species",
		"Cerebellum Surface Area",
		"Cerebrum Surface Area",
		"Cerebellum Volume",
		"Cerebrum Volume",
		"Taxon",
	}
	wantKinds := []Kind{KindText, KindNumeric, KindNumeric, KindNumeric, KindNumeric, KindText}

	cols := table.Columns()
	if len(cols) != len(wantNames) {
		t.Fatalf("got %d columns (%v), want %d", len(cols), cols, len(wantNames))
	}
	for i, c := range cols {
		if c.Index != i {
			t.Fatalf("column %d has Index %d", i, c.Index)
		}
		if c.Name != wantNames[i] {
			t.Fatalf("column %d name = %q, want %q", i, c.Name, wantNames[i])
		}
		if c.Kind != wantKinds[i] {
			t.Fatalf("column %q kind = %q, want %q", c.Name, c.Kind, wantKinds[i])
		}
	}
	if table.NumRows() != 4 {
		t.Fatalf("NumRows = %d, want 4", table.NumRows())
	}
}

func TestReadDropsSourceAndTrailingColumns(t *testing.T) {
	table := fixture(t)
	if _, ok := table.ColumnIndex("Source"); ok {
		t.Fatalf("Source column should be dropped")
	}
	if _, ok := table.ColumnIndex("Scratch"); ok {
		t.Fatalf("columns beyond the first %d should be ignored", maxSourceColumns)
	}
}

func TestReadDropsAllEmptyColumns(t *testing.T) {
	rows := strings.Join([]string{
		"Species ,CerebellumVolume ,Notes,Taxon",
		"Homo sapiens,120.2,,Hominidae",
		"Pan troglodytes,70.4,,Hominidae",
	}, "\n")
	table, err := Read(strings.NewReader(rows))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if _, ok := table.ColumnIndex("Notes"); ok {
		t.Fatalf("all-empty column should be dropped")
	}
	if got := table.NumCols(); got != 3 {
		t.Fatalf("NumCols = %d, want 3", got)
	}
}

func TestFloatAccess(t *testing.T) {
	table := fixture(t)

	v, ok := table.Float("Cerebrum Volume", 0)
	if !ok || v != 1200.1 {
		t.Fatalf("Float(Cerebrum Volume, 0) = %v, %v", v, ok)
	}
	// Missing cell
	if _, ok := table.Float("Cerebellum Surface Area", 2); ok {
		t.Fatalf("missing cell reported as present")
	}
	// Non-numeric column never yields floats
	if _, ok := table.Float("Species", 0); ok {
		t.Fatalf("text column reported numeric value")
	}
	// Out of range
	if _, ok := table.Float("Cerebrum Volume", 99); ok {
		t.Fatalf("out-of-range row reported as present")
	}
	if got := table.String("Species", 3); got != "Macaca mulatta" {
		t.Fatalf("String(Species, 3) = %q", got)
	}
}

func TestPairedFloatsSkipsMissing(t *testing.T) {
	table := fixture(t)
	xs, ys, taxa := table.PairedFloats("Cerebellum Surface Area", "Cerebellum Volume", "Taxon")
	if len(xs) != 3 || len(ys) != 3 || len(taxa) != 3 {
		t.Fatalf("got %d/%d/%d rows, want 3 (row with missing x skipped)", len(xs), len(ys), len(taxa))
	}
	want := []string{"Hominidae", "Hominidae", "Cercopithecidae"}
	for i, taxon := range want {
		if taxa[i] != taxon {
			t.Fatalf("taxa[%d] = %q, want %q", i, taxa[i], taxon)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "all_species_values.csv"))
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}
