package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var rowValidator = validator.New(validator.WithRequiredStructEnabled())

// checkRow validates a row loaded from the store before it is used. A failure
// means the stored data is malformed and is reported as an internal error.
func checkRow(row any) error {
	if err := rowValidator.Struct(row); err != nil {
		return fmt.Errorf("malformed %T row: %w", row, err)
	}
	return nil
}
