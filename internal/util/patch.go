package util

import "github.com/lib/pq"

// Patch accumulates columns for a partial update. Request structs use pointer
// fields for everything optional; a nil pointer means "not supplied" and the
// column is left untouched. This is the single serialization boundary between
// handler input and the store: nothing nil ever reaches a write.
type Patch map[string]interface{}

// NewPatch creates an empty patch
func NewPatch() Patch {
	return Patch{}
}

// SetString adds a string column when the value was supplied
func (p Patch) SetString(column string, v *string) Patch {
	if v != nil {
		p[column] = *v
	}
	return p
}

// SetFloat adds a float column when the value was supplied
func (p Patch) SetFloat(column string, v *float64) Patch {
	if v != nil {
		p[column] = *v
	}
	return p
}

// SetInt adds an int column when the value was supplied
func (p Patch) SetInt(column string, v *int) Patch {
	if v != nil {
		p[column] = *v
	}
	return p
}

// SetBool adds a bool column when the value was supplied
func (p Patch) SetBool(column string, v *bool) Patch {
	if v != nil {
		p[column] = *v
	}
	return p
}

// SetStrings adds a text-array column when the value was supplied
func (p Patch) SetStrings(column string, v *[]string) Patch {
	if v != nil {
		p[column] = pq.StringArray(*v)
	}
	return p
}

// Set adds an arbitrary column value unconditionally
func (p Patch) Set(column string, v interface{}) Patch {
	p[column] = v
	return p
}

// Empty reports whether no columns were supplied
func (p Patch) Empty() bool {
	return len(p) == 0
}
