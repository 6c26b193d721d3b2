package store

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// overlayFile is the on-disk shape of an overlay set.
type overlayFile struct {
	Overlays []Overlay `json:"overlays"`
}

// ReadJSON decodes an overlay set from r and validates every record.
// The format is the one produced by [WriteJSON].
func ReadJSON(r io.Reader) ([]Overlay, error) {
	var f overlayFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding overlay set: %w", err)
	}
	for _, o := range f.Overlays {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("overlay %s: %w", o.ID, err)
		}
	}
	return f.Overlays, nil
}

// WriteJSON encodes an overlay set to w, sorted by id for deterministic
// output. The result can be re-imported with [ReadJSON].
func WriteJSON(overlays []Overlay, w io.Writer) error {
	sorted := make([]Overlay, len(overlays))
	copy(sorted, overlays)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(overlayFile{Overlays: sorted}); err != nil {
		return fmt.Errorf("encoding overlay set: %w", err)
	}
	return nil
}
