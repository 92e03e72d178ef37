package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBase64Image(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nfake"))

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"raw base64", raw, false},
		{"data uri", "data:image/png;base64," + raw, false},
		{"data uri without base64 marker", "data:image/png," + raw, true},
		{"data uri for non image", "data:text/plain;base64," + raw, true},
		{"not base64", "not base64 at all!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBase64Image("pic", tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, KindValidation, AsAPIError(err).Kind)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
