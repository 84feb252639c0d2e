package preset

import (
	"encoding/json"
	"fmt"
	"os"
)

// Bank is an ordered preset collection: document order on load, append
// order on creation. Duplicate preset numbers are permitted by the model;
// NextFreeNumber is the allocation policy for callers that want unique
// slots. The bank does no locking; hosts sharing one across goroutines
// must serialize access themselves.
type Bank struct {
	presets []*Preset
}

// NewBank creates an empty bank
func NewBank() *Bank {
	return &Bank{}
}

// Add appends a preset to the bank
func (b *Bank) Add(p *Preset) {
	b.presets = append(b.presets, p)
}

// Len returns the number of presets
func (b *Bank) Len() int {
	return len(b.presets)
}

// At returns the preset at index i, or nil when out of bounds
func (b *Bank) At(i int) *Preset {
	if i < 0 || i >= len(b.presets) {
		return nil
	}
	return b.presets[i]
}

// Remove deletes the preset at index i, preserving order
func (b *Bank) Remove(i int) error {
	if i < 0 || i >= len(b.presets) {
		return fmt.Errorf("preset index %d out of bounds (0-%d)", i, len(b.presets)-1)
	}
	b.presets = append(b.presets[:i], b.presets[i+1:]...)
	return nil
}

// Presets returns the presets in order. The slice is shared; callers must
// not reorder it.
func (b *Bank) Presets() []*Preset {
	return b.presets
}

// FindByNumber returns the first preset with the given number, or nil
func (b *Bank) FindByNumber(number int) *Preset {
	for _, p := range b.presets {
		if p.Number == number {
			return p
		}
	}
	return nil
}

// NextFreeNumber returns the lowest unused slot in 0..MaxNumber, or -1
// when every slot is taken
func (b *Bank) NextFreeNumber() int {
	used := make(map[int]bool, len(b.presets))
	for _, p := range b.presets {
		used[p.Number] = true
	}
	for n := 0; n <= MaxNumber; n++ {
		if !used[n] {
			return n
		}
	}
	return -1
}

// ToDocuments converts the bank to an ordered document array
func (b *Bank) ToDocuments() []Document {
	docs := make([]Document, 0, len(b.presets))
	for _, p := range b.presets {
		docs = append(docs, p.ToDocument())
	}
	return docs
}

// FromDocuments builds a bank from a document array. A malformed document
// fails the whole call with the index of the offending record; callers
// wanting skip-and-continue should iterate FromDocument themselves.
func FromDocuments(docs []Document) (*Bank, error) {
	b := NewBank()
	for i, doc := range docs {
		p, err := FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("preset %d: %w", i, err)
		}
		b.Add(p)
	}
	return b, nil
}

// MarshalJSON encodes the bank as a JSON array of preset documents
func (b *Bank) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToDocuments())
}

// UnmarshalJSON decodes a JSON array of preset documents
func (b *Bank) UnmarshalJSON(data []byte) error {
	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return err
	}
	loaded, err := FromDocuments(docs)
	if err != nil {
		return err
	}
	b.presets = loaded.presets
	return nil
}

// LoadFile reads a bank from a JSON file
func LoadFile(filename string) (*Bank, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read preset file: %w", err)
	}
	b := NewBank()
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("failed to parse preset file: %w", err)
	}
	return b, nil
}

// SaveFile writes the bank to a JSON file
func (b *Bank) SaveFile(filename string) error {
	data, err := json.MarshalIndent(b.ToDocuments(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
