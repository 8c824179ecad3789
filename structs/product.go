package structs

import (
	"catalog_server/structs/tables"
	"net/url"
)

// UploadedFile is one file part of a product form
type UploadedFile struct {
	Name    string // client filename
	Size    int64  // in bytes
	Content []byte
}

// ProductForm is the raw, unvalidated product payload with bracketed keys
// already collapsed (gallery_images[0] and gallery_images[] become gallery_images)
type ProductForm struct {
	Values url.Values
	Files  map[string][]*UploadedFile
}

func NewProductForm() *ProductForm {
	return &ProductForm{
		Values: url.Values{},
		Files:  map[string][]*UploadedFile{},
	}
}

// Has reports whether key was submitted as a regular field
func (f *ProductForm) Has(key string) bool {
	_, ok := f.Values[key]
	return ok
}

func (f *ProductForm) Value(key string) string {
	return f.Values.Get(key)
}

func (f *ProductForm) List(key string) []string {
	return f.Values[key]
}

func (f *ProductForm) File(key string) *UploadedFile {
	if files := f.Files[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}

func (f *ProductForm) FileList(key string) []*UploadedFile {
	return f.Files[key]
}

// ProductInput is a validated and normalized product payload
type ProductInput struct {
	Name           string
	Description    *string
	HasDescription bool
	Price          tables.Money
	Stock          int
	SKU            *string
	HasSKU         bool
	IsActive       *bool // nil when not submitted

	FeatureImage     *UploadedFile
	GalleryImages    []*UploadedFile
	RemoveGalleryIDs []int64
}

// ProductResult is the outcome of a product mutation
type ProductResult struct {
	Product *tables.Product `json:"product,omitempty"`
	Message string          `json:"message"`
}

// ProductFormContext is what a create or edit form needs to render
type ProductFormContext struct {
	Product      any          `json:"product"`
	PrimaryImage any          `json:"primary_image,omitempty"`
	Limits       UploadLimits `json:"limits"`
}

type UploadLimits struct {
	MaxImageKB   int64    `json:"max_image_kb"`
	AllowedTypes []string `json:"allowed_types"`
}

// PaginationLink is one entry of a paginator's link strip
type PaginationLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Paginator mirrors the length-aware paginator payload consumed by the admin UI
type Paginator[T any] struct {
	CurrentPage  int              `json:"current_page"`
	Data         []T              `json:"data"`
	FirstPageURL string           `json:"first_page_url"`
	From         *int             `json:"from"`
	LastPage     int              `json:"last_page"`
	LastPageURL  string           `json:"last_page_url"`
	Links        []PaginationLink `json:"links"`
	NextPageURL  *string          `json:"next_page_url"`
	Path         string           `json:"path"`
	PerPage      int              `json:"per_page"`
	PrevPageURL  *string          `json:"prev_page_url"`
	To           *int             `json:"to"`
	Total        int              `json:"total"`
}
