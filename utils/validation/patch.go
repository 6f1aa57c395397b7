package validation

import "encoding/json"

// PatchField is a tri-state JSON field: absent, explicit null, or a value.
type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

// Get returns the value and whether the field was sent at all.
func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

// Apply overwrites *dst with the field when it was sent.
func (p PatchField[T]) Apply(dst **T) {
	if p.Present {
		*dst = p.Value
	}
}
