package services

import (
	"catalog_server/lib"
	"catalog_server/structs"
	"catalog_server/structs/tables"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var productMessages = map[string]string{
	"name.required":  "The product name is required.",
	"price.required": "The product price is required.",
	"price.numeric":  "The product price must be a number.",
	"price.min":      "The product price cannot be negative.",
	"stock.required": "The stock quantity is required.",
	"stock.integer":  "The stock quantity must be a whole number.",
	"stock.min":      "The stock quantity cannot be negative.",
	"sku.unique":     "This SKU is already in use.",

	"feature_image.image":    "The feature image must be an image file.",
	"feature_image.max":      "The feature image must not be larger than 2MB.",
	"gallery_images.*.image": "Each gallery item must be an image file.",
	"gallery_images.*.max":   "Each gallery image must not be larger than 2MB.",
}

// productFields holds the scalar form fields after trimming; empty means absent
type productFields struct {
	Name        string `form:"name" validate:"required,max=255"`
	Description string `form:"description"`
	Price       string `form:"price" validate:"required"`
	Stock       string `form:"stock" validate:"required"`
	SKU         string `form:"sku" validate:"omitempty,max=255"`
	IsActive    string `form:"is_active" validate:"omitempty,flag"`
}

// ProductValidator turns a raw product form into a ProductInput or a field error map
type ProductValidator struct {
	lookup     ProductLookup
	maxImageKB int64
}

func NewProductValidator(lookup ProductLookup, maxImageKB int64) *ProductValidator {
	if maxImageKB <= 0 {
		maxImageKB = 2048
	}
	return &ProductValidator{
		lookup:     lookup,
		maxImageKB: maxImageKB,
	}
}

// Validate checks form against the product rules. productID is the product being
// updated, or 0 on create; it is excluded from the sku uniqueness check.
// Failures come back as *lib.ValidationError; any other error is a lookup failure.
func (pv *ProductValidator) Validate(ctx context.Context, form *structs.ProductForm, productID int64) (*structs.ProductInput, error) {
	errs := lib.NewValidationError()

	fields := productFields{
		Name:        field(form, "name"),
		Description: field(form, "description"),
		Price:       field(form, "price"),
		Stock:       field(form, "stock"),
		SKU:         field(form, "sku"),
		IsActive:    field(form, "is_active"),
	}
	if err := lib.ValidateStruct(fields, productMessages, errs); err != nil {
		return nil, err
	}

	input := &structs.ProductInput{
		Name:           fields.Name,
		HasDescription: form.Has("description"),
		Description:    nullable(fields.Description),
		HasSKU:         form.Has("sku"),
		SKU:            nullable(fields.SKU),
	}

	if !errs.Has("price") {
		price, err := decimal.NewFromString(fields.Price)
		switch {
		case err != nil:
			errs.Add("price", productMessages["price.numeric"])
		case price.IsNegative():
			errs.Add("price", productMessages["price.min"])
		default:
			input.Price = tables.NewMoney(price)
		}
	}

	if !errs.Has("stock") {
		stock, ok := lib.ParseInteger(fields.Stock)
		switch {
		case !ok:
			errs.Add("stock", productMessages["stock.integer"])
		case stock < 0:
			errs.Add("stock", productMessages["stock.min"])
		default:
			input.Stock = int(stock)
		}
	}

	if input.SKU != nil && !errs.Has("sku") {
		taken, err := pv.lookup.SKUTaken(ctx, *input.SKU, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to check sku uniqueness: %w", err)
		}
		if taken {
			errs.Add("sku", productMessages["sku.unique"])
		}
	}

	if fields.IsActive != "" && !errs.Has("is_active") {
		active, _ := lib.ParseFlag(fields.IsActive)
		input.IsActive = &active
	}

	if file := form.File("feature_image"); file != nil {
		if msg := pv.checkImage(file, "feature_image"); msg != "" {
			errs.Add("feature_image", msg)
		} else {
			input.FeatureImage = file
		}
	}

	for i, file := range form.FileList("gallery_images") {
		if file == nil {
			continue
		}
		if msg := pv.checkImage(file, "gallery_images.*"); msg != "" {
			errs.Add(fmt.Sprintf("gallery_images.%d", i), msg)
			continue
		}
		input.GalleryImages = append(input.GalleryImages, file)
	}

	ids, err := pv.removeIDs(ctx, form, errs)
	if err != nil {
		return nil, err
	}
	input.RemoveGalleryIDs = ids

	if !errs.Empty() {
		return nil, errs
	}
	return input, nil
}

// checkImage returns the first failing image rule message, or ""
func (pv *ProductValidator) checkImage(file *structs.UploadedFile, attribute string) string {
	if _, ok := lib.DetectImage(file.Content); !ok {
		return productMessages[attribute+".image"]
	}
	if float64(file.Size)/1024 > float64(pv.maxImageKB) {
		return productMessages[attribute+".max"]
	}
	return ""
}

// removeIDs parses remove_gallery_ids and checks each id exists as some gallery row
func (pv *ProductValidator) removeIDs(ctx context.Context, form *structs.ProductForm, errs *lib.ValidationError) ([]int64, error) {
	raw := form.List("remove_gallery_ids")
	if len(raw) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(raw))
	keys := make([]string, 0, len(raw))
	for i, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		key := fmt.Sprintf("remove_gallery_ids.%d", i)
		id, ok := lib.ParseInteger(value)
		if !ok {
			errs.Add(key, fmt.Sprintf("The %s field must be an integer.", key))
			continue
		}
		ids = append(ids, id)
		keys = append(keys, key)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	existing, err := pv.lookup.ExistingGalleryIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check gallery ids: %w", err)
	}

	for i, id := range ids {
		if !existing[id] {
			errs.Add(keys[i], fmt.Sprintf("The selected %s is invalid.", keys[i]))
		}
	}

	return ids, nil
}

// field returns a trimmed form value
func field(form *structs.ProductForm, key string) string {
	return strings.TrimSpace(form.Value(key))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
