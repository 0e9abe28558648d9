package prsform

import (
	"reflect"
	"testing"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

func field(id uint, ft model.FieldType, order int) model.FormField {
	return model.FormField{ID: id, Name: "f", Label: "Field", FieldType: ft, Order: order}
}

// writeToRead reinterprets a write record as a stored read record.
func writeToRead(w FieldValueWrite) model.FieldValue {
	return model.FieldValue{
		FieldID:       w.FieldID,
		ValueText:     w.ValueText,
		ValueNumber:   w.ValueNumber,
		ValueBool:     w.ValueBool,
		ValueDate:     w.ValueDate,
		ValueDropdown: w.ValueDropdown,
	}
}

func TestToAPIFormatRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		field model.FormField
		value Value
	}{
		{"text value", field(1, model.FieldTypeText, 0), TextValue("hello")},
		{"empty text stays text", field(2, model.FieldTypeText, 0), TextValue("")},
		{"number value", field(3, model.FieldTypeNumber, 0), NumberValue(12.5)},
		{"number zero survives", field(4, model.FieldTypeNumber, 0), NumberValue(0)},
		{"bool true", field(5, model.FieldTypeBoolean, 0), BoolValue(true)},
		{"bool false survives", field(6, model.FieldTypeBoolean, 0), BoolValue(false)},
		{"date value", field(7, model.FieldTypeDate, 0), DateValue("2026-01-15")},
		{"dropdown value", field(8, model.FieldTypeDropdown, 0), DropdownValue("Laptop")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writes := ToAPIFormat([]model.FormField{tt.field}, map[uint]Value{tt.field.ID: tt.value})
			if len(writes) != 1 {
				t.Fatalf("expected 1 write record, got %d", len(writes))
			}
			got, ok := ExtractValue(writeToRead(writes[0]))
			if !ok {
				t.Fatalf("extract on round-tripped record returned no value")
			}
			if got.AsString() != tt.value.AsString() {
				t.Errorf("round trip changed value: got %q, want %q", got.AsString(), tt.value.AsString())
			}
		})
	}
}

func TestToAPIFormatSkipsFileUpload(t *testing.T) {
	fields := []model.FormField{
		field(1, model.FieldTypeText, 0),
		field(2, model.FieldTypeFileUpload, 1),
		field(3, model.FieldTypeNumber, 2),
	}
	writes := ToAPIFormat(fields, map[uint]Value{1: TextValue("a"), 3: NumberValue(2)})
	if len(writes) != 2 {
		t.Fatalf("expected FILE_UPLOAD to be skipped, got %d records", len(writes))
	}
	if writes[0].FieldID != 1 || writes[1].FieldID != 3 {
		t.Errorf("output order must follow input order minus FILE_UPLOAD, got %d,%d", writes[0].FieldID, writes[1].FieldID)
	}
}

func TestToAPIFormatBlankNumberIsNull(t *testing.T) {
	f := field(1, model.FieldTypeNumber, 0)

	for _, v := range []map[uint]Value{
		{1: TextValue("")},   // blanked input
		{},                   // never answered
		{1: TextValue("x9")}, // unparsable
	} {
		writes := ToAPIFormat([]model.FormField{f}, v)
		if writes[0].ValueNumber != nil {
			t.Errorf("blank/absent number input must produce null, got %v", *writes[0].ValueNumber)
		}
	}

	writes := ToAPIFormat([]model.FormField{f}, map[uint]Value{1: TextValue("42.5")})
	if writes[0].ValueNumber == nil || *writes[0].ValueNumber != 42.5 {
		t.Errorf("numeric string input must parse, got %v", writes[0].ValueNumber)
	}
}

func TestToAPIFormatBooleanCoercion(t *testing.T) {
	f := field(1, model.FieldTypeBoolean, 0)
	tests := []struct {
		value Value
		want  bool
	}{
		{BoolValue(true), true},
		{BoolValue(false), false},
		{TextValue("true"), true},
		{TextValue("1"), false}, // only boolean true or the string "true"
		{TextValue("yes"), false},
	}
	for _, tt := range tests {
		writes := ToAPIFormat([]model.FormField{f}, map[uint]Value{1: tt.value})
		if writes[0].ValueBool == nil || *writes[0].ValueBool != tt.want {
			t.Errorf("boolean coercion of %+v: got %v, want %v", tt.value, writes[0].ValueBool, tt.want)
		}
	}
}

func TestExtractValuePriority(t *testing.T) {
	text := "t"
	num := 3.0
	fv := model.FieldValue{FieldID: 1, ValueText: &text, ValueNumber: &num}
	got, ok := ExtractValue(fv)
	if !ok || got.Kind != model.FieldTypeText {
		t.Errorf("text slot must win the priority order, got %+v", got)
	}

	if _, ok := ExtractValue(model.FieldValue{FieldID: 2}); ok {
		t.Error("all-nil record must extract to no value")
	}
}

func TestExtractInitialValuesOmitsUnanswered(t *testing.T) {
	text := "a"
	flag := false
	fvs := []model.FieldValue{
		{FieldID: 1, ValueText: &text},
		{FieldID: 2}, // never answered
		{FieldID: 3, ValueBool: &flag},
	}
	values := ExtractInitialValues(fvs)
	if len(values) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(values))
	}
	if _, ok := values[2]; ok {
		t.Error("unanswered field must be absent from the map")
	}
	if v := values[3]; v.AsBool() != false || v.IsZero() {
		t.Error("boolean false must survive extraction")
	}
}

func TestBuildInitialValues(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, FieldType: model.FieldTypeText, DefaultValue: "hello"},
		{ID: 2, FieldType: model.FieldTypeNumber, DefaultValue: "2.5"},
		{ID: 3, FieldType: model.FieldTypeNumber, DefaultValue: "abc"}, // unparsable, skipped
		{ID: 4, FieldType: model.FieldTypeBoolean, DefaultValue: "true"},
		{ID: 5, FieldType: model.FieldTypeBoolean, DefaultValue: "1"},
		{ID: 6, FieldType: model.FieldTypeBoolean, DefaultValue: "yes"},
		{ID: 7, FieldType: model.FieldTypeDate, DefaultValue: "2026-02-01"},
		{ID: 8, FieldType: model.FieldTypeText}, // no default, omitted
	}
	values := BuildInitialValues(fields)

	if v := values[1]; v.AsString() != "hello" {
		t.Errorf("text default: got %q", v.AsString())
	}
	if v := values[2]; v.Num != 2.5 {
		t.Errorf("number default: got %v", v.Num)
	}
	if _, ok := values[3]; ok {
		t.Error("unparsable number default must be omitted")
	}
	if !values[4].AsBool() || !values[5].AsBool() {
		t.Error(`"true" and "1" defaults must both be true`)
	}
	if values[6].AsBool() {
		t.Error(`"yes" is not a true-encoding`)
	}
	if v := values[7]; v.AsString() != "2026-02-01" {
		t.Errorf("date default: got %q", v.AsString())
	}
	if _, ok := values[8]; ok {
		t.Error("field without default must be omitted")
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		field model.FormField
		value Value
		want  bool
	}{
		{"bool false is an answer", field(1, model.FieldTypeBoolean, 0), BoolValue(false), false},
		{"bool absent is empty", field(1, model.FieldTypeBoolean, 0), Value{}, true},
		{"number zero is an answer", field(2, model.FieldTypeNumber, 0), NumberValue(0), false},
		{"number blank is empty", field(2, model.FieldTypeNumber, 0), TextValue(""), true},
		{"text empty string is empty", field(3, model.FieldTypeText, 0), TextValue(""), true},
		{"text value is not empty", field(3, model.FieldTypeText, 0), TextValue("x"), false},
		{"dropdown empty option is empty", field(4, model.FieldTypeDropdown, 0), DropdownValue(""), true},
		{"date absent is empty", field(5, model.FieldTypeDate, 0), Value{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.field, tt.value); got != tt.want {
				t.Errorf("IsEmpty = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortFieldsStable(t *testing.T) {
	fields := []model.FormField{
		{ID: 10, Order: 2},
		{ID: 11, Order: 1},
		{ID: 12, Order: 1},
		{ID: 13, Order: 0},
		{ID: 14, Order: 1},
	}
	sorted := SortFields(fields)

	gotIDs := make([]uint, len(sorted))
	for i, f := range sorted {
		gotIDs[i] = f.ID
	}
	// Equal orders keep their relative input position.
	wantIDs := []uint{13, 11, 12, 14, 10}
	if !reflect.DeepEqual(gotIDs, wantIDs) {
		t.Errorf("stable sort violated: got %v, want %v", gotIDs, wantIDs)
	}

	if fields[0].ID != 10 {
		t.Error("SortFields must not mutate its input")
	}
}

func TestValidateRequired(t *testing.T) {
	fields := []model.FormField{
		{ID: 1, Label: "شرح", FieldType: model.FieldTypeText, Required: true},
		{ID: 2, Label: "تعداد", FieldType: model.FieldTypeNumber, Required: true},
		{ID: 3, Label: "فاکتور", FieldType: model.FieldTypeFileUpload, Required: true},
		{ID: 4, Label: "توضیح", FieldType: model.FieldTypeText, Required: false},
	}
	values := map[uint]Value{2: NumberValue(0)}

	errs := ValidateRequired(fields, values)
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %+v", len(errs), errs)
	}
	// Required FILE_UPLOAD is validated via attachments, not field values;
	// number 0 is a real answer; optional fields never error.
	if errs[0].FieldID != 1 {
		t.Errorf("expected error on field 1, got %d", errs[0].FieldID)
	}
	if errs[0].Message == "" {
		t.Error("field error must carry a user-facing message")
	}
}
