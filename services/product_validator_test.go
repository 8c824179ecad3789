package services

import (
	"catalog_server/lib"
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() (*ProductValidator, *stubLookup) {
	lookup := &stubLookup{
		skus:      map[string]int64{"LAMP-1": 7},
		galleries: map[int64]bool{3: true, 4: true},
	}
	return NewProductValidator(lookup, 2048), lookup
}

func validationErrors(t *testing.T, err error) map[string]string {
	t.Helper()

	var validationErr *lib.ValidationError
	require.ErrorAs(t, err, &validationErr)
	return validationErr.Errors
}

func TestValidateAcceptsMinimalForm(t *testing.T) {
	v, _ := newValidator()

	input, err := v.Validate(context.Background(), validForm(), 0)
	require.NoError(t, err)

	assert.Equal(t, "Desk Lamp", input.Name)
	assert.Equal(t, "49.90", input.Price.String())
	assert.Equal(t, 12, input.Stock)
	assert.Nil(t, input.Description)
	assert.Nil(t, input.SKU)
	assert.Nil(t, input.IsActive)
	assert.False(t, input.HasDescription)
	assert.False(t, input.HasSKU)
	assert.Nil(t, input.FeatureImage)
	assert.Empty(t, input.GalleryImages)
	assert.Empty(t, input.RemoveGalleryIDs)
}

func TestValidateRequiredFields(t *testing.T) {
	v, _ := newValidator()

	_, err := v.Validate(context.Background(), newForm(map[string]string{"name": "   "}), 0)

	assert.Equal(t, map[string]string{
		"name":  "The product name is required.",
		"price": "The product price is required.",
		"stock": "The stock quantity is required.",
	}, validationErrors(t, err))
}

func TestValidateScalarRules(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"name too long", "name", strings.Repeat("a", 256), "The name field must not be greater than 255 characters."},
		{"price not numeric", "price", "abc", "The product price must be a number."},
		{"price negative", "price", "-0.01", "The product price cannot be negative."},
		{"stock fractional", "stock", "1.5", "The stock quantity must be a whole number."},
		{"stock negative", "stock", "-2", "The stock quantity cannot be negative."},
		{"stock leading zero", "stock", "05", "The stock quantity must be a whole number."},
		{"stock exponent", "stock", "1e3", "The stock quantity must be a whole number."},
		{"sku too long", "sku", strings.Repeat("S", 256), "The sku field must not be greater than 255 characters."},
		{"is_active not a flag", "is_active", "maybe", "The is active field must be true or false."},
		{"is_active spelled out", "is_active", "true", "The is active field must be true or false."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newValidator()
			form := withValues(validForm(), tt.key, tt.value)

			_, err := v.Validate(context.Background(), form, 0)

			assert.Equal(t, map[string]string{tt.key: tt.message}, validationErrors(t, err))
		})
	}
}

func TestValidateNameAtLimit(t *testing.T) {
	v, _ := newValidator()
	form := withValues(validForm(), "name", strings.Repeat("a", 255))

	_, err := v.Validate(context.Background(), form, 0)
	assert.NoError(t, err)
}

func TestValidateNormalizesOptionalFields(t *testing.T) {
	v, lookup := newValidator()
	form := validForm()
	form.Values.Set("description", "   ")
	form.Values.Set("sku", "")
	form.Values.Set("is_active", "0")

	input, err := v.Validate(context.Background(), form, 0)
	require.NoError(t, err)

	assert.True(t, input.HasDescription)
	assert.Nil(t, input.Description)
	assert.True(t, input.HasSKU)
	assert.Nil(t, input.SKU)
	require.NotNil(t, input.IsActive)
	assert.False(t, *input.IsActive)
	assert.Zero(t, lookup.calls, "an empty sku is not checked for uniqueness")
}

func TestValidateSKUUniqueness(t *testing.T) {
	v, _ := newValidator()

	_, err := v.Validate(context.Background(), withValues(validForm(), "sku", "LAMP-1"), 0)
	assert.Equal(t, map[string]string{"sku": "This SKU is already in use."}, validationErrors(t, err))

	// the owning product may keep its sku
	input, err := v.Validate(context.Background(), withValues(validForm(), "sku", "LAMP-1"), 7)
	require.NoError(t, err)
	assert.Equal(t, "LAMP-1", *input.SKU)

	// comparison is case-sensitive
	_, err = v.Validate(context.Background(), withValues(validForm(), "sku", "lamp-1"), 0)
	assert.NoError(t, err)
}

func TestValidateImages(t *testing.T) {
	v, _ := newValidator()

	oversized := pngFile("huge.png")
	oversized.Size = 2048*1024 + 1

	atLimit := pngFile("edge.png")
	atLimit.Size = 2048 * 1024

	form := validForm()
	withFiles(form, "feature_image", textFile("notes.txt"))
	withFiles(form, "gallery_images", pngFile("a.png"), oversized, textFile("b.txt"), atLimit)

	_, err := v.Validate(context.Background(), form, 0)

	assert.Equal(t, map[string]string{
		"feature_image":    "The feature image must be an image file.",
		"gallery_images.1": "Each gallery image must not be larger than 2MB.",
		"gallery_images.2": "Each gallery item must be an image file.",
	}, validationErrors(t, err))
}

func TestValidateFeatureImageTooLarge(t *testing.T) {
	v, _ := newValidator()
	big := pngFile("big.png")
	big.Size = 3 * 1024 * 1024

	_, err := v.Validate(context.Background(), withFiles(validForm(), "feature_image", big), 0)

	assert.Equal(t, map[string]string{"feature_image": "The feature image must not be larger than 2MB."}, validationErrors(t, err))
}

func TestValidateKeepsGalleryOrder(t *testing.T) {
	v, _ := newValidator()
	form := withFiles(validForm(), "gallery_images", pngFile("first.png"), pngFile("second.png"))
	withFiles(form, "feature_image", pngFile("cover.png"))

	input, err := v.Validate(context.Background(), form, 0)
	require.NoError(t, err)

	require.Len(t, input.GalleryImages, 2)
	assert.Equal(t, "first.png", input.GalleryImages[0].Name)
	assert.Equal(t, "second.png", input.GalleryImages[1].Name)
	require.NotNil(t, input.FeatureImage)
	assert.Equal(t, "cover.png", input.FeatureImage.Name)
}

func TestValidateRemoveGalleryIDs(t *testing.T) {
	v, _ := newValidator()
	form := formValues(url.Values{
		"name":               {"Desk Lamp"},
		"price":              {"10"},
		"stock":              {"1"},
		"remove_gallery_ids": {"3", "abc", "", "999", "04"},
	})

	_, err := v.Validate(context.Background(), form, 0)

	assert.Equal(t, map[string]string{
		"remove_gallery_ids.1": "The remove_gallery_ids.1 field must be an integer.",
		"remove_gallery_ids.3": "The selected remove_gallery_ids.3 is invalid.",
		"remove_gallery_ids.4": "The remove_gallery_ids.4 field must be an integer.",
	}, validationErrors(t, err))
}

func TestValidateRemoveGalleryIDsAnyOwner(t *testing.T) {
	v, _ := newValidator()
	form := withValues(validForm(), "remove_gallery_ids", "3", " 4 ", "")

	input, err := v.Validate(context.Background(), form, 99)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 4}, input.RemoveGalleryIDs)
}
