package lib

import (
	"strconv"
	"strings"
)

// NormalizeFormKey strips a trailing bracket suffix from a form key.
// "gallery_images[]" gives ("gallery_images", -1) and
// "remove_gallery_ids[2]" gives ("remove_gallery_ids", 2).
// Plain keys are returned unchanged with index -1.
func NormalizeFormKey(key string) (string, int) {
	if !strings.HasSuffix(key, "]") {
		return key, -1
	}

	open := strings.LastIndexByte(key, '[')
	if open <= 0 {
		return key, -1
	}

	name, inner := key[:open], key[open+1:len(key)-1]
	if inner == "" {
		return name, -1
	}

	index, err := strconv.Atoi(inner)
	if err != nil || index < 0 {
		// named sub-keys are not part of the product form
		return key, -1
	}
	return name, index
}
