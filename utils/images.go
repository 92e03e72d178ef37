package utils

import (
	"encoding/base64"
	"strings"
)

// ValidateBase64Image checks that value is either empty, raw base64, or a
// data URI of the form "data:image/<ext>;base64,<payload>".
func ValidateBase64Image(field, value string) error {
	if value == "" {
		return nil
	}

	payload := value
	if strings.HasPrefix(value, "data:") {
		header, data, ok := strings.Cut(value, ";base64,")
		if !ok || !strings.HasPrefix(header, "data:image/") {
			return NewValidationError("INVALID_IMAGE", field+" must be a base64 encoded image")
		}
		payload = data
	}

	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return NewValidationError("INVALID_IMAGE", field+" must be a base64 encoded image")
	}
	return nil
}
