package sheet

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fcbtools/fcb1010/pkg/preset"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"presets.json", FormatJSON},
		{"presets.JSON", FormatJSON},
		{"presets.csv", FormatCSV},
		{"presets.tsv", FormatCSV},
		{"presets.txt", FormatUnknown},
		{"presets", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestHeaderLayout(t *testing.T) {
	h := Header()
	if len(h) != preset.RowWidth {
		t.Fatalf("header length = %d, want %d", len(h), preset.RowWidth)
	}
	if h[0] != "Preset Number" || h[12] != "Notes" {
		t.Errorf("header = %v, want fixed 13-column layout", h)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	b := preset.NewBank()
	p1 := preset.New(0, "Rhythm")
	_ = p1.AddProgramChange(10, 0)
	_ = p1.AddControlChange(7, 100, 0)
	p2 := preset.New(1, "Solo")
	_ = p2.AddProgramChange(11, 1)
	b.Add(p1)
	b.Add(p2)

	got, rowErrs := Import(Export(b))
	if len(rowErrs) != 0 {
		t.Fatalf("Import() row errors = %v, want none", rowErrs)
	}
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	for i := 0; i < 2; i++ {
		if !got.At(i).Equal(b.At(i)) {
			t.Errorf("preset %d mismatch after export/import", i)
		}
	}
}

func TestImportSkipsBadRowsAndContinues(t *testing.T) {
	rows := [][]string{
		Header(),
		{"0", "Good One", "10", "0", "", "", "", "", "", "", "", "", ""},
		{"abc", "Bad Number"},
		{"2", "Good Two", "", "", "", "", "80", "127", "1", "", "", "", ""},
	}

	b, rowErrs := Import(rows)
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (bad row skipped)", b.Len())
	}
	if len(rowErrs) != 1 {
		t.Fatalf("row errors = %d, want 1", len(rowErrs))
	}
	if rowErrs[0].Line != 3 {
		t.Errorf("row error line = %d, want 3", rowErrs[0].Line)
	}
	if !errors.Is(rowErrs[0], preset.ErrInvalidRow) {
		t.Errorf("row error = %v, want ErrInvalidRow", rowErrs[0])
	}
}

func TestImportWithoutHeader(t *testing.T) {
	rows := [][]string{
		{"5", "No Header", "20", "1", "", "", "", "", "", "", "", "", ""},
	}

	b, rowErrs := Import(rows)
	if len(rowErrs) != 0 {
		t.Fatalf("Import() row errors = %v, want none", rowErrs)
	}
	if b.Len() != 1 || b.At(0).Number != 5 {
		t.Errorf("Import without header should keep the first row")
	}
}

func TestCSVFileRoundTrip(t *testing.T) {
	b := preset.NewBank()
	p := preset.New(3, "Delay On")
	_ = p.AddControlChange(82, 127, 0)
	b.Add(p)

	path := filepath.Join(t.TempDir(), "presets.csv")
	if err := WriteCSVFile(b, path); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}

	got, rowErrs, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("ReadCSVFile() row errors = %v, want none", rowErrs)
	}
	if got.Len() != 1 || !got.At(0).Equal(p) {
		t.Errorf("csv round trip mismatch")
	}
}
