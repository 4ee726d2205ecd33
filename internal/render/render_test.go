package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/JackIHill/CerebellumProject/internal/combos"
	"github.com/JackIHill/CerebellumProject/internal/config"
	"github.com/JackIHill/CerebellumProject/internal/dataset"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func fixture(t *testing.T) *dataset.Table {
	t.Helper()
	rows := []string{
		"Species ,CerebellumSurfaceArea,CerebrumSurfaceArea,CerebellumVolume ,CerebrumVolume,Taxon,Source",
		"Homo sapiens,42.5,1000.5,120.2,1200.1,Hominidae,",
		"Pan troglodytes,30.1,600.3,70.4,350.2,Hominidae,",
		"Hylobates lar,12.3,200.0,15.5,90.3,Hylobatidae,",
		"Macaca mulatta,10.2,150.8,9.8,85.0,Cercopithecidae,",
		"Cebus apella,8.1,110.2,7.9,66.0,Platyrrhini,",
	}
	table, err := dataset.Read(strings.NewReader(strings.Join(rows, "\n")))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return table
}

func TestFigureProducesPNG(t *testing.T) {
	table := fixture(t)
	pairs := []combos.Pair{
		{X: "Cerebrum Volume", Y: "Cerebellum Volume"},
		{X: "Cerebrum Volume", Y: "Cerebellum Surface Area"},
	}
	png, err := Figure(table, pairs, config.DefaultColors(), false)
	if err != nil {
		t.Fatalf("Figure: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("output is not a PNG (got %d bytes)", len(png))
	}
}

func TestFigureLogged(t *testing.T) {
	table := fixture(t)
	pairs := []combos.Pair{{X: "Cerebrum Volume", Y: "Cerebellum Volume"}}
	png, err := Figure(table, pairs, config.DefaultColors(), true)
	if err != nil {
		t.Fatalf("Figure logged: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("logged output is not a PNG")
	}
}

func TestFigureNoPairs(t *testing.T) {
	if _, err := Figure(fixture(t), nil, config.DefaultColors(), false); err == nil {
		t.Fatalf("expected error for empty pair set")
	}
}

func TestRegressionProducesPNG(t *testing.T) {
	png, err := Regression(fixture(t), config.DefaultColors())
	if err != nil {
		t.Fatalf("Regression: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("regression output is not a PNG")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#7f48b5")
	if err != nil {
		t.Fatalf("ParseHexColor: %v", err)
	}
	if c.R != 0x7f || c.G != 0x48 || c.B != 0xb5 || c.A != 255 {
		t.Fatalf("parsed color = %+v", c)
	}
	if _, err := ParseHexColor("f2e3bd"); err != nil {
		t.Fatalf("bare hex should parse: %v", err)
	}
	if _, err := ParseHexColor("#zzz"); err == nil {
		t.Fatalf("expected error for malformed hex")
	}
}
