package prsform

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

func TestRenderFormTextControls(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: model.FieldTypeText},
		{ID: 2, FieldType: model.FieldTypeText, ValidationRules: datatypes.JSON(`{"multiline": true}`)},
		{ID: 3, FieldType: model.FieldTypeText, ValidationRules: datatypes.JSON(`{"multiline": true, "rows": 8}`)},
	}
	widgets := RenderForm(fields, nil, true)

	if widgets[0].Control != ControlText {
		t.Errorf("plain text field: got %s", widgets[0].Control)
	}
	if widgets[1].Control != ControlTextarea || widgets[1].Rows != 4 {
		t.Errorf("multiline default rows must be 4, got %s/%d", widgets[1].Control, widgets[1].Rows)
	}
	if widgets[2].Rows != 8 {
		t.Errorf("rows rule must override default, got %d", widgets[2].Rows)
	}
}

func TestRenderFormNumberRules(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: model.FieldTypeNumber},
		{ID: 2, FieldType: model.FieldTypeNumber, ValidationRules: datatypes.JSON(`{"min": 1, "max": 10, "step": "0.5"}`)},
	}
	widgets := RenderForm(fields, nil, true)

	if widgets[0].Step != "any" {
		t.Errorf("default step must be \"any\", got %q", widgets[0].Step)
	}
	w := widgets[1]
	if w.Min == nil || *w.Min != 1 || w.Max == nil || *w.Max != 10 || w.Step != "0.5" {
		t.Errorf("number rules not applied: %+v", w)
	}
}

func TestRenderFormDateTruncation(t *testing.T) {
	fields := []model.FormField{{ID: 1, FieldType: model.FieldTypeDate}}
	widgets := RenderForm(fields, map[uint]Value{1: DateValue("2026-03-04T10:30:00Z")}, true)

	if widgets[0].Value == nil || widgets[0].Value.AsString() != "2026-03-04" {
		t.Errorf("ISO datetime must truncate at T, got %+v", widgets[0].Value)
	}
}

func TestRenderFormToggleCoercion(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: model.FieldTypeBoolean},
		{ID: 2, FieldType: model.FieldTypeBoolean},
		{ID: 3, FieldType: model.FieldTypeBoolean},
	}
	values := map[uint]Value{1: BoolValue(true), 2: TextValue("true"), 3: TextValue("on")}
	widgets := RenderForm(fields, values, true)

	if !widgets[0].Value.AsBool() || !widgets[1].Value.AsBool() {
		t.Error("true and \"true\" must both render checked")
	}
	if widgets[2].Value.AsBool() {
		t.Error("\"on\" is not a true-encoding")
	}
}

func TestRenderFormDropdownOptions(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: model.FieldTypeDropdown, DropdownOptions: datatypes.JSON(`["Laptop","Monitor"]`)},
	}
	widgets := RenderForm(fields, map[uint]Value{1: DropdownValue("")}, true)

	w := widgets[0]
	if w.Control != ControlSelect || len(w.Options) != 2 {
		t.Fatalf("select options not decoded: %+v", w)
	}
	// The empty option maps to null: an empty selection renders as no value.
	if w.Value != nil {
		t.Errorf("empty selection must render without a value, got %+v", w.Value)
	}
}

func TestRenderFormFileUploadPointer(t *testing.T) {
	fields := []model.FormField{{ID: 1, FieldType: model.FieldTypeFileUpload}}

	editable := RenderForm(fields, nil, true)
	if editable[0].Control != ControlAttachment || !editable[0].ShowAction {
		t.Errorf("editable FILE_UPLOAD must point at attachments with the helper action: %+v", editable[0])
	}

	readonly := RenderForm(fields, nil, false)
	if readonly[0].ShowAction {
		t.Error("read-only form must suppress the attachments helper action")
	}
	if !readonly[0].ReadOnly {
		t.Error("read-only form must mark widgets read-only")
	}
}

func TestRenderFormUnknownTypeIsNonFatal(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: "SIGNATURE", Order: 0},
		{ID: 2, FieldType: model.FieldTypeText, Order: 1},
	}
	widgets := RenderForm(fields, nil, true)

	if len(widgets) != 2 {
		t.Fatal("an unknown type must not abort rendering the rest of the form")
	}
	if widgets[0].Control != ControlError || widgets[0].Message == "" {
		t.Errorf("unknown type must render an inline error naming it: %+v", widgets[0])
	}
	if widgets[1].Control != ControlText {
		t.Error("fields after the unknown one must render normally")
	}
}

func TestRenderFormOrdering(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: model.FieldTypeText, Order: 5},
		{ID: 2, FieldType: model.FieldTypeText, Order: 1},
	}
	widgets := RenderForm(fields, nil, true)
	if widgets[0].FieldID != 2 || widgets[1].FieldID != 1 {
		t.Errorf("widgets must follow field order, got %d,%d", widgets[0].FieldID, widgets[1].FieldID)
	}
}
