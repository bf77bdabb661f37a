package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"shortorder/internal/models"
)

var validate = validator.New()

// Validate checks the field-level rules of an authored document: required IDs,
// occurrence in [0,1], non-negative amounts and caps, and a known course for every
// food group. Reference resolution happens in Build.
func Validate(doc *models.CatalogDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidRecord)
	}
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, formatValidationError(err))
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Namespace(),
			e.Tag(),
			e.Value(),
		))
	}
	return errors.New(strings.Join(messages, "; "))
}
