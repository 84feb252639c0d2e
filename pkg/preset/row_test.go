package preset

import (
	"errors"
	"testing"
)

func TestToRowLayout(t *testing.T) {
	p := New(5, "Crunch")
	_ = p.AddProgramChange(20, 1)
	_ = p.AddControlChange(10, 64, 2)

	row := p.ToRow()
	if len(row) != RowWidth {
		t.Fatalf("row length = %d, want %d", len(row), RowWidth)
	}

	want := []string{"5", "Crunch", "20", "1", "", "", "10", "64", "2", "", "", "", ""}
	for i, cell := range want {
		if row[i] != cell {
			t.Errorf("row[%d] = %q, want %q", i, row[i], cell)
		}
	}
}

func TestToRowDropsOverflow(t *testing.T) {
	// The spreadsheet layout is fixed width: events beyond 2 PC / 2 CC are
	// dropped silently, not errored.
	p := New(1, "Busy")
	for i := 0; i < 4; i++ {
		_ = p.AddProgramChange(i, 0)
		_ = p.AddControlChange(i, i, 0)
	}

	row := p.ToRow()
	if len(row) != RowWidth {
		t.Fatalf("row length = %d, want %d", len(row), RowWidth)
	}
	if row[2] != "0" || row[4] != "1" {
		t.Errorf("PC cells = %q, %q, want first two programs 0 and 1", row[2], row[4])
	}
}

func TestRowRoundTripBound(t *testing.T) {
	p := New(42, "Wah")
	_ = p.AddProgramChange(10, 3)
	_ = p.AddProgramChange(11, 0)
	_ = p.AddProgramChange(12, 5) // dropped by the projection
	_ = p.AddControlChange(80, 127, 1)
	_ = p.AddControlChange(81, 0, 0)
	_ = p.AddControlChange(82, 64, 2) // dropped

	got, err := FromRow(p.ToRow())
	if err != nil {
		t.Fatalf("FromRow() error = %v", err)
	}

	want := New(42, "Wah")
	_ = want.AddProgramChange(10, 3)
	_ = want.AddProgramChange(11, 0)
	_ = want.AddControlChange(80, 127, 1)
	_ = want.AddControlChange(81, 0, 0)

	if !got.Equal(want) {
		t.Errorf("row round trip = %+v, want %+v", got, want)
	}
}

func TestFromRowInvalidLeadingCell(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"non-numeric", []string{"abc", "Bad"}},
		{"empty", []string{"", "Bad"}},
		{"negative", []string{"-3", "Bad"}},
		{"empty row", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRow(tt.row)
			if !errors.Is(err, ErrInvalidRow) {
				t.Errorf("FromRow(%v) error = %v, want ErrInvalidRow", tt.row, err)
			}
		})
	}
}

func TestFromRowEmptySlots(t *testing.T) {
	row := []string{"3", "Sparse", "", "", "40", "2", "", "", "", "22", "100", ""}

	p, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow() error = %v", err)
	}

	if len(p.ProgramChanges) != 1 {
		t.Fatalf("ProgramChanges length = %d, want 1", len(p.ProgramChanges))
	}
	if p.ProgramChanges[0].Program != 40 || p.ProgramChanges[0].Channel != 2 {
		t.Errorf("ProgramChanges[0] = %+v, want program 40 channel 2", p.ProgramChanges[0])
	}

	if len(p.ControlChanges) != 1 {
		t.Fatalf("ControlChanges length = %d, want 1", len(p.ControlChanges))
	}
	cc := p.ControlChanges[0]
	if cc.Controller != 22 || cc.Value != 100 || cc.Channel != 0 {
		t.Errorf("ControlChanges[0] = %+v, want controller 22 value 100 channel 0", cc)
	}
}

func TestFromRowShortRow(t *testing.T) {
	// Rows may arrive truncated; missing trailing cells mean unused slots
	p, err := FromRow([]string{"8", "Short", "15"})
	if err != nil {
		t.Fatalf("FromRow() error = %v", err)
	}
	if len(p.ProgramChanges) != 1 || p.ProgramChanges[0].Channel != 0 {
		t.Errorf("ProgramChanges = %+v, want one PC with channel 0", p.ProgramChanges)
	}
	if len(p.ControlChanges) != 0 {
		t.Errorf("ControlChanges length = %d, want 0", len(p.ControlChanges))
	}
}

func TestFromRowOutOfRange(t *testing.T) {
	_, err := FromRow([]string{"1", "Hot", "200", "0"})
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("FromRow() error = %v, want ErrOutOfRange", err)
	}
}
