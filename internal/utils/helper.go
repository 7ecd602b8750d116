package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-playground/validator/v10"
)

func DecodeJSON(r io.Reader, dest any, source string) error {

	body, err := io.ReadAll(r)

	if err != nil {
		slog.Error("Failed to read response body",
			slog.String("error", err.Error()),
			slog.String("endpoint", source),
		)
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) == 0 {
		slog.Warn("Empty response body", slog.String("endpoint", source))
		return errors.New("response body is empty")
	}

	if err := json.Unmarshal(body, dest); err != nil {
		slog.Error("Failed to parse response JSON",
			slog.String("error", err.Error()),
			slog.String("endpoint", source),
		)
		return fmt.Errorf("unexpected response format: %w", err)
	}

	return nil
}

func ValidateStruct(validate *validator.Validate, data any) error {
	if err := validate.Struct(data); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			slog.Warn("User input validation failed",
				slog.String("error", validationErrs.Error()),
			)
			return fmt.Errorf("validation error: %w", validationErrs)

		}

		slog.Error("Unexpected validation error", slog.String("error", err.Error()))
		return fmt.Errorf("unexpected validation error: %w", err)
	}
	return nil
}
