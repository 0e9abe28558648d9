package prsform

import (
	"fmt"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
)

// ValidateRequired collects an error for every required, non-FILE_UPLOAD
// field whose value is empty. The caller blocks submission while any error
// exists; the server runs the same check again and stays the final authority.
func ValidateRequired(fields []model.FormField, values map[uint]Value) []model.FieldError {
	var errs []model.FieldError
	for _, f := range fields {
		if !f.Required || f.FieldType == model.FieldTypeFileUpload {
			continue
		}
		if IsEmpty(f, values[f.ID]) {
			errs = append(errs, model.FieldError{
				FieldID: f.ID,
				Message: fmt.Sprintf("فیلد «%s» الزامی است", f.Label),
			})
		}
	}
	return errs
}
