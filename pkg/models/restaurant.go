package models

import (
	"errors"

	"github.com/jellydator/validation"
)

const (
	FieldID          = "id"
	FieldName        = "name"
	FieldDrawHistory = "drawHistory"
)

var errNameNotString = errors.New("must be a string")

// Restaurant is a user-owned record. Apart from id and name its fields are
// whatever the client sent, so it is kept as a plain JSON object.
type Restaurant map[string]any

// ID returns the record id, or "" if it has none.
func (r Restaurant) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Name returns the record name, or "" if it is missing or not a string.
func (r Restaurant) Name() string {
	name, _ := r[FieldName].(string)
	return name
}

// Validate checks the record carries a non-empty string name.
func (r Restaurant) Validate() error {
	name, ok := r[FieldName]
	if !ok || name == nil {
		return validation.Errors{FieldName: validation.ErrRequired}
	}
	s, ok := name.(string)
	if !ok {
		return validation.Errors{FieldName: errNameNotString}
	}
	return validation.Errors{
		FieldName: validation.Validate(s, validation.Required),
	}.Filter()
}

// ValidateUpdate checks a partial update. Name may be absent, but if it is
// present it must still be a non-empty string.
func (r Restaurant) ValidateUpdate() error {
	if _, ok := r[FieldName]; !ok {
		return nil
	}
	return r.Validate()
}

// Clone returns a shallow copy of the record.
func (r Restaurant) Clone() Restaurant {
	out := make(Restaurant, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns r with every field of update laid over it. The id never
// changes, and drawHistory falls back to the existing value and then to an
// empty list.
func (r Restaurant) Merge(update Restaurant) Restaurant {
	merged := r.Clone()
	for k, v := range update {
		merged[k] = v
	}
	merged[FieldID] = r[FieldID]

	if dh, ok := update[FieldDrawHistory]; ok && dh != nil {
		merged[FieldDrawHistory] = dh
	} else if dh, ok := r[FieldDrawHistory]; ok && dh != nil {
		merged[FieldDrawHistory] = dh
	} else {
		merged[FieldDrawHistory] = []any{}
	}
	return merged
}
