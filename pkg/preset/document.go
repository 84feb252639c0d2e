package preset

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingField is returned when a required document field is absent
var ErrMissingField = errors.New("missing required field")

// Document is the structured (JSON) shape of a preset. Field names are
// fixed; unknown extra fields are ignored on read.
type Document struct {
	PresetNumber *int              `json:"preset_number"`
	Name         string            `json:"name,omitempty"`
	ProgramList  []ProgramDocument `json:"program_changes"`
	ControlList  []ControlDocument `json:"control_changes"`
}

// ProgramDocument is one program_changes[] record
type ProgramDocument struct {
	Program int `json:"program"`
	Channel int `json:"channel"`
}

// ControlDocument is one control_changes[] record
type ControlDocument struct {
	Controller int `json:"controller"`
	Value      int `json:"value"`
	Channel    int `json:"channel"`
}

// ToDocument converts the preset to its structured form,
// the exact inverse of FromDocument.
func (p *Preset) ToDocument() Document {
	number := p.Number
	doc := Document{
		PresetNumber: &number,
		Name:         p.Name,
		ProgramList:  make([]ProgramDocument, 0, len(p.ProgramChanges)),
		ControlList:  make([]ControlDocument, 0, len(p.ControlChanges)),
	}
	for _, pc := range p.ProgramChanges {
		doc.ProgramList = append(doc.ProgramList, ProgramDocument{
			Program: int(pc.Program),
			Channel: int(pc.Channel),
		})
	}
	for _, cc := range p.ControlChanges {
		doc.ControlList = append(doc.ControlList, ControlDocument{
			Controller: int(cc.Controller),
			Value:      int(cc.Value),
			Channel:    int(cc.Channel),
		})
	}
	return doc
}

// FromDocument builds a preset from its structured form. Every event is
// replayed through the validating constructors, so a document cannot
// smuggle in values the direct API would reject. A record without a
// channel defaults it to 0 (the zero value of the document field).
func FromDocument(doc Document) (*Preset, error) {
	if doc.PresetNumber == nil {
		return nil, fmt.Errorf("preset_number: %w", ErrMissingField)
	}

	p := New(*doc.PresetNumber, doc.Name)
	for i, pc := range doc.ProgramList {
		if err := p.AddProgramChange(pc.Program, pc.Channel); err != nil {
			return nil, fmt.Errorf("program_changes[%d]: %w", i, err)
		}
	}
	for i, cc := range doc.ControlList {
		if err := p.AddControlChange(cc.Controller, cc.Value, cc.Channel); err != nil {
			return nil, fmt.Errorf("control_changes[%d]: %w", i, err)
		}
	}
	return p, nil
}

// FromJSON decodes a single preset document
func FromJSON(data []byte) (*Preset, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse preset document: %w", err)
	}
	return FromDocument(doc)
}

// ToJSON encodes the preset as an indented document
func (p *Preset) ToJSON() ([]byte, error) {
	return json.MarshalIndent(p.ToDocument(), "", "  ")
}
