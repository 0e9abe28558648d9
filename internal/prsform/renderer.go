package prsform

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

// Control identifies the widget kind a field renders as.
type Control string

const (
	ControlText       Control = "text"
	ControlTextarea   Control = "textarea"
	ControlNumber     Control = "number"
	ControlDate       Control = "date"
	ControlToggle     Control = "toggle"
	ControlSelect     Control = "select"
	ControlAttachment Control = "attachment" // pointer to the attachments surface
	ControlError      Control = "error"      // unsupported field type, non-fatal
)

// Widget is the UI-agnostic render descriptor for one field. The host maps
// it onto concrete controls; edits flow back as (fieldId, newValue), the
// renderer itself never writes anywhere.
type Widget struct {
	FieldID  uint    `json:"field_id"`
	Name     string  `json:"name"`
	Label    string  `json:"label"`
	HelpText string  `json:"help_text,omitempty"`
	Control  Control `json:"control"`
	Required bool    `json:"required"`
	ReadOnly bool    `json:"read_only"`

	// Value is the display value: dates already truncated to YYYY-MM-DD,
	// toggles coerced. Nil means no answer yet.
	Value *Value `json:"value,omitempty"`

	Rows    int      `json:"rows,omitempty"`    // textarea
	Step    string   `json:"step,omitempty"`    // number, default "any"
	Min     *float64 `json:"min,omitempty"`     // number
	Max     *float64 `json:"max,omitempty"`     // number
	Options []string `json:"options,omitempty"` // select, excluding the empty option

	// ShowAction enables the "go to attachments" helper on FILE_UPLOAD
	// widgets; suppressed when the form is read-only.
	ShowAction bool `json:"show_action,omitempty"`

	// Message carries the inline error text for unsupported field types.
	Message string `json:"message,omitempty"`
}

// RenderForm converts a field schema plus the current value map into widget
// descriptors, sorted by field order. An unknown field type produces a
// visible error widget and never aborts the rest of the form.
func RenderForm(fields []model.FormField, values map[uint]Value, editable bool) []Widget {
	sorted := SortFields(fields)
	widgets := make([]Widget, 0, len(sorted))
	for _, f := range sorted {
		widgets = append(widgets, renderField(f, values, editable))
	}
	return widgets
}

func renderField(f model.FormField, values map[uint]Value, editable bool) Widget {
	w := Widget{
		FieldID:  f.ID,
		Name:     f.Name,
		Label:    f.Label,
		HelpText: f.HelpText,
		Required: f.Required,
		ReadOnly: !editable,
	}
	rules := parseRules(f.ValidationRules)
	v, present := values[f.ID]

	switch f.FieldType {
	case model.FieldTypeText:
		if rules.boolRule("multiline") {
			w.Control = ControlTextarea
			w.Rows = 4
			if rows, ok := rules.intRule("rows"); ok && rows > 0 {
				w.Rows = rows
			}
		} else {
			w.Control = ControlText
		}
		if present {
			w.Value = &v
		}

	case model.FieldTypeNumber:
		w.Control = ControlNumber
		w.Step = "any"
		if step, ok := rules.stringRule("step"); ok && step != "" {
			w.Step = step
		}
		if min, ok := rules.floatRule("min"); ok {
			w.Min = &min
		}
		if max, ok := rules.floatRule("max"); ok {
			w.Max = &max
		}
		if present {
			w.Value = &v
		}

	case model.FieldTypeDate:
		w.Control = ControlDate
		if present {
			// ISO datetimes are truncated at the T separator for display.
			d := DateValue(truncateDate(v.AsString()))
			w.Value = &d
		}

	case model.FieldTypeBoolean:
		w.Control = ControlToggle
		if present {
			b := BoolValue(v.AsBool())
			w.Value = &b
		}

	case model.FieldTypeDropdown:
		w.Control = ControlSelect
		w.Options = decodeOptions(f.DropdownOptions)
		if present && v.AsString() != "" {
			w.Value = &v
		}

	case model.FieldTypeFileUpload:
		// Never collects a value here; files live on the attachments surface.
		w.Control = ControlAttachment
		w.ShowAction = editable

	default:
		w.Control = ControlError
		w.Message = fmt.Sprintf("unsupported field type: %s", f.FieldType)
	}

	return w
}

// truncateDate normalizes an ISO datetime to YYYY-MM-DD by cutting at 'T'.
func truncateDate(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

func decodeOptions(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var options []string
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil
	}
	return options
}

// rules is the decoded open validation_rules map.
type rules map[string]interface{}

func parseRules(raw datatypes.JSON) rules {
	if len(raw) == 0 {
		return nil
	}
	var r rules
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil
	}
	return r
}

func (r rules) boolRule(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func (r rules) intRule(key string) (int, bool) {
	f, ok := r.floatRule(key)
	return int(f), ok
}

func (r rules) floatRule(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

func (r rules) stringRule(key string) (string, bool) {
	switch v := r[key].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}
