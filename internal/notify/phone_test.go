package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		valid bool
	}{
		{"plain digits", "70012345", "70012345", true},
		{"formatted", "+591 (700) 123-45", "59170012345", true},
		{"dots and spaces", "700.123.45", "70012345", true},
		{"too short", "123-45", "", false},
		{"seven digits", "1234567", "", false},
		{"eight digits boundary", "12345678", "12345678", true},
		{"letters only", "no phone", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.raw)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
