package preset

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidRow is returned when a tabular row's leading identifier cell
// is absent or non-numeric. Callers importing a batch should skip the row
// and continue.
var ErrInvalidRow = errors.New("invalid row")

// Row projection limits. The spreadsheet layout has a fixed column count:
// overflow events beyond these limits are dropped from the row, not errored.
const (
	MaxRowProgramChanges = 2
	MaxRowControlChanges = 2
	RowWidth             = 13
)

// ToRow flattens the preset to the fixed 13-cell spreadsheet row:
// number, name, up to 2 PC (program, channel) pairs, up to 2 CC
// (controller, value, channel) triples, one trailing notes cell.
// Unused slots are padded with empty strings. The projection is lossy:
// events beyond the slot limits are silently dropped.
func (p *Preset) ToRow() []string {
	row := make([]string, 0, RowWidth)
	row = append(row, strconv.Itoa(p.Number), p.Name)

	for i := 0; i < MaxRowProgramChanges; i++ {
		if i < len(p.ProgramChanges) {
			pc := p.ProgramChanges[i]
			row = append(row, strconv.Itoa(int(pc.Program)), strconv.Itoa(int(pc.Channel)))
		} else {
			row = append(row, "", "")
		}
	}

	for i := 0; i < MaxRowControlChanges; i++ {
		if i < len(p.ControlChanges) {
			cc := p.ControlChanges[i]
			row = append(row,
				strconv.Itoa(int(cc.Controller)),
				strconv.Itoa(int(cc.Value)),
				strconv.Itoa(int(cc.Channel)))
		} else {
			row = append(row, "", "", "")
		}
	}

	// Notes column, left for the spreadsheet side to populate
	row = append(row, "")
	return row
}

// FromRow rebuilds a preset from the non-dropped portion of a row. The
// first cell must parse as a non-negative integer or the row is rejected
// with ErrInvalidRow. An empty leading cell in a PC/CC slot means the slot
// is unused; missing companion cells default to 0. Out-of-range values are
// rejected the same way direct construction rejects them.
func FromRow(row []string) (*Preset, error) {
	first := cellAt(row, 0)
	number, err := strconv.Atoi(first)
	if err != nil || number < 0 {
		return nil, fmt.Errorf("preset number cell %q: %w", first, ErrInvalidRow)
	}

	p := New(number, cellAt(row, 1))

	// PC slots: cells 2-3 and 4-5
	for i := 0; i < MaxRowProgramChanges; i++ {
		base := 2 + i*2
		program, ok := parseCell(cellAt(row, base))
		if !ok {
			continue
		}
		channel, _ := parseCell(cellAt(row, base+1))
		if err := p.AddProgramChange(program, channel); err != nil {
			return nil, fmt.Errorf("PC%d: %w", i+1, err)
		}
	}

	// CC slots: cells 6-8 and 9-11
	for i := 0; i < MaxRowControlChanges; i++ {
		base := 6 + i*3
		controller, ok := parseCell(cellAt(row, base))
		if !ok {
			continue
		}
		value, _ := parseCell(cellAt(row, base+1))
		channel, _ := parseCell(cellAt(row, base+2))
		if err := p.AddControlChange(controller, value, channel); err != nil {
			return nil, fmt.Errorf("CC%d: %w", i+1, err)
		}
	}

	return p, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseCell parses a numeric cell. Empty or non-numeric cells report
// ok=false (unused slot / defaulted companion), mirroring the spreadsheet
// convention where a blank cell means "not set".
func parseCell(cell string) (int, bool) {
	if cell == "" {
		return 0, false
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return n, true
}
