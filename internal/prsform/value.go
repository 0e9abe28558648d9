package prsform

import (
	"strconv"
	"strings"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

// Value is a tagged union over the wire format's five nullable slots. The
// zero Value (empty Kind) means "no answer"; map lookups on absent field ids
// therefore behave like null without a separate presence flag.
type Value struct {
	Kind model.FieldType `json:"kind"`
	Text string          `json:"text,omitempty"`
	Num  float64         `json:"num,omitempty"`
	Flag bool            `json:"flag,omitempty"`
}

func TextValue(s string) Value {
	return Value{Kind: model.FieldTypeText, Text: s}
}

func NumberValue(f float64) Value {
	return Value{Kind: model.FieldTypeNumber, Num: f}
}

func BoolValue(b bool) Value {
	return Value{Kind: model.FieldTypeBoolean, Flag: b}
}

func DateValue(s string) Value {
	return Value{Kind: model.FieldTypeDate, Text: s}
}

func DropdownValue(s string) Value {
	return Value{Kind: model.FieldTypeDropdown, Text: s}
}

// IsZero reports whether the value is the "no answer" zero value.
func (v Value) IsZero() bool {
	return v.Kind == ""
}

// AsString renders the held value as a string, the way a form input would
// show it. Numbers drop the trailing ".0" for whole values.
func (v Value) AsString() string {
	switch v.Kind {
	case model.FieldTypeNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case model.FieldTypeBoolean:
		if v.Flag {
			return "true"
		}
		return "false"
	default:
		return v.Text
	}
}

// AsNumber parses the held value as a float. Blank or unparsable input
// yields ok=false, never NaN.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case model.FieldTypeNumber:
		return v.Num, true
	case "":
		return 0, false
	default:
		s := strings.TrimSpace(v.Text)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

// AsBool coerces the held value the way the form toggle does: true only for
// boolean true or the literal string "true".
func (v Value) AsBool() bool {
	if v.Kind == model.FieldTypeBoolean {
		return v.Flag
	}
	return v.Text == "true"
}
