package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetContentType(t *testing.T) {
	tests := []struct {
		extension string
		expected  string
	}{
		{".jpg", "image/jpeg"},
		{".JPEG", "image/jpeg"},
		{".png", "image/png"},
		{".gif", "image/gif"},
		{".webp", "image/webp"},
		{".svg", "image/svg+xml"},
		{".bin", "application/octet-stream"},
		{"", "application/octet-stream"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, getContentType(tt.extension), "extension %q", tt.extension)
	}
}
