package lib

import (
	"github.com/gabriel-vasile/mimetype"
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/bmp",
	"image/webp",
}

// ImageType describes a sniffed image upload
type ImageType struct {
	MIME      string
	Extension string // with leading dot
}

// DetectImage sniffs content and reports whether it is an accepted raster image.
// The client-supplied filename and content type are ignored.
func DetectImage(content []byte) (*ImageType, bool) {
	if len(content) == 0 {
		return nil, false
	}

	mtype := mimetype.Detect(content)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, false
	}

	return &ImageType{
		MIME:      mtype.String(),
		Extension: mtype.Extension(),
	}, true
}

func AllowedImageTypes() []string {
	out := make([]string, len(allowedImageTypes))
	copy(out, allowedImageTypes)
	return out
}
