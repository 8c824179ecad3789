package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFormKey(t *testing.T) {
	tests := []struct {
		key       string
		wantName  string
		wantIndex int
	}{
		{"name", "name", -1},
		{"gallery_images[]", "gallery_images", -1},
		{"remove_gallery_ids[0]", "remove_gallery_ids", 0},
		{"remove_gallery_ids[12]", "remove_gallery_ids", 12},
		{"meta[color]", "meta[color]", -1},
		{"[]", "[]", -1},
		{"odd]", "odd]", -1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			name, index := NormalizeFormKey(tt.key)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantIndex, index)
		})
	}
}
