package prsform

import (
	"sort"
	"strconv"
	"strings"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

// FieldValueWrite is the wire record sent back to the API when saving a
// request: exactly one slot set, matching the owning field's type.
type FieldValueWrite struct {
	FieldID       uint     `json:"field_id"`
	ValueText     *string  `json:"value_text"`
	ValueNumber   *float64 `json:"value_number"`
	ValueBool     *bool    `json:"value_bool"`
	ValueDate     *string  `json:"value_date"`
	ValueDropdown *string  `json:"value_dropdown"`
}

// ExtractValue returns the first populated slot of a stored field value, in
// the fixed priority order text, number, bool, date, dropdown. More than one
// populated slot is a data-quality bug upstream; callers must not rely on
// the priority to disambiguate it.
func ExtractValue(fv model.FieldValue) (Value, bool) {
	switch {
	case fv.ValueText != nil:
		return TextValue(*fv.ValueText), true
	case fv.ValueNumber != nil:
		return NumberValue(*fv.ValueNumber), true
	case fv.ValueBool != nil:
		return BoolValue(*fv.ValueBool), true
	case fv.ValueDate != nil:
		return DateValue(*fv.ValueDate), true
	case fv.ValueDropdown != nil:
		return DropdownValue(*fv.ValueDropdown), true
	}
	return Value{}, false
}

// ExtractInitialValues builds the in-memory form state from a request's
// persisted values. Entries with no populated slot are omitted, so "never
// answered" fields stay absent from the map.
func ExtractInitialValues(fieldValues []model.FieldValue) map[uint]Value {
	values := make(map[uint]Value, len(fieldValues))
	for _, fv := range fieldValues {
		if v, ok := ExtractValue(fv); ok {
			values[fv.FieldID] = v
		}
	}
	return values
}

// BuildInitialValues seeds defaults for a new request from each field's
// default_value, converting per field type. Fields without a default, and
// NUMBER defaults that do not parse, are omitted.
func BuildInitialValues(fields []model.FormField) map[uint]Value {
	values := make(map[uint]Value)
	for _, f := range fields {
		if f.DefaultValue == "" {
			continue
		}
		switch f.FieldType {
		case model.FieldTypeNumber:
			if n, err := strconv.ParseFloat(strings.TrimSpace(f.DefaultValue), 64); err == nil {
				values[f.ID] = NumberValue(n)
			}
		case model.FieldTypeBoolean:
			values[f.ID] = BoolValue(f.DefaultValue == "true" || f.DefaultValue == "1")
		case model.FieldTypeDate:
			values[f.ID] = DateValue(f.DefaultValue)
		case model.FieldTypeDropdown:
			values[f.ID] = DropdownValue(f.DefaultValue)
		case model.FieldTypeFileUpload:
			// File fields carry no value, even if a default sneaks in.
		default:
			values[f.ID] = TextValue(f.DefaultValue)
		}
	}
	return values
}

// ToAPIFormat emits one write record per non-FILE_UPLOAD field, setting the
// single slot matching the field type. Output order matches the input field
// order minus the skipped FILE_UPLOAD entries.
func ToAPIFormat(fields []model.FormField, values map[uint]Value) []FieldValueWrite {
	writes := make([]FieldValueWrite, 0, len(fields))
	for _, f := range fields {
		if f.FieldType == model.FieldTypeFileUpload {
			continue
		}
		w := FieldValueWrite{FieldID: f.ID}
		v, present := values[f.ID]
		switch f.FieldType {
		case model.FieldTypeNumber:
			// Blank and unparsable input both become null, never NaN or 0.
			if n, ok := v.AsNumber(); ok {
				w.ValueNumber = &n
			}
		case model.FieldTypeBoolean:
			b := present && v.AsBool()
			w.ValueBool = &b
		case model.FieldTypeDate:
			if present && v.AsString() != "" {
				s := v.AsString()
				w.ValueDate = &s
			}
		case model.FieldTypeDropdown:
			// The empty select option means "no choice", stored as null.
			if present && v.AsString() != "" {
				s := v.AsString()
				w.ValueDropdown = &s
			}
		default: // TEXT and anything unknown round-trips as text
			if present {
				s := v.AsString()
				w.ValueText = &s
			}
		}
		writes = append(writes, w)
	}
	return writes
}

// IsEmpty is the per-type emptiness predicate behind required-field
// validation. A BOOLEAN false is a real answer and therefore not empty;
// a NUMBER 0 likewise.
func IsEmpty(field model.FormField, v Value) bool {
	if v.IsZero() {
		return true
	}
	switch field.FieldType {
	case model.FieldTypeBoolean:
		return false
	case model.FieldTypeNumber:
		_, ok := v.AsNumber()
		return !ok
	default: // TEXT, DATE, DROPDOWN
		return v.AsString() == ""
	}
}

// SortFields orders fields by ascending order, ties keeping their original
// array position (stable).
func SortFields(fields []model.FormField) []model.FormField {
	sorted := make([]model.FormField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}
