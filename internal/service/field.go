package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pesio-ai/be-lit-backoffice/internal/common/errors"
	"github.com/pesio-ai/be-lit-backoffice/internal/domain"
)

// Field is a request body member that distinguishes absent, null and a value,
// so updates replace only what the caller sent.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Val returns a present field.
func Val[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

// Null returns a field explicitly set to null.
func Null[T any]() Field[T] { return Field[T]{Set: true, Null: true} }

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool { return f.Set && !f.Null }

func (f Field[T]) blank() bool {
	if !f.Present() {
		return true
	}
	if s, ok := any(f.Value).(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// apply copies a present value into dst.
func (f Field[T]) apply(dst *T) {
	if f.Present() {
		*dst = f.Value
	}
}

// applyPtr copies the value into a nullable column, clearing it on null.
func (f Field[T]) applyPtr(dst **T) {
	if !f.Set {
		return
	}
	if f.Null {
		*dst = nil
		return
	}
	v := f.Value
	*dst = &v
}

// applyDate parses a calendar date into a nullable column.
func applyDate(field string, f Field[string], dst **time.Time) error {
	if !f.Set {
		return nil
	}
	if f.Null || strings.TrimSpace(f.Value) == "" {
		*dst = nil
		return nil
	}
	t, err := domain.ParseCalendarDate(strings.TrimSpace(f.Value))
	if err != nil {
		return errors.InvalidInput(field, "Invalid date for "+field)
	}
	*dst = &t
	return nil
}
