package lib

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectImage(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		wantExt string
		wantOK  bool
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"), ".png", true},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), ".gif", true},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"), ".jpg", true},
		{"text", []byte("just some notes"), "", false},
		{"pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n"), "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			image, ok := DetectImage(tt.content)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, image)
				assert.Equal(t, tt.wantExt, image.Extension)
			}
		})
	}
}

func TestGenerateFileToken(t *testing.T) {
	token := GenerateFileToken()

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{40}$`), token)
	assert.NotEqual(t, token, GenerateFileToken())
}
