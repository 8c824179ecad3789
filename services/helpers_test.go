package services

import (
	"catalog_server/database/dbtest"
	"catalog_server/lib"
	"catalog_server/structs"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sync"
	"testing"

	"github.com/MonkyMars/gecho"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func pngFile(name string) *structs.UploadedFile {
	return &structs.UploadedFile{Name: name, Size: int64(len(pngHeader)), Content: pngHeader}
}

func textFile(name string) *structs.UploadedFile {
	content := []byte("not an image at all")
	return &structs.UploadedFile{Name: name, Size: int64(len(content)), Content: content}
}

func newForm(values map[string]string) *structs.ProductForm {
	form := structs.NewProductForm()
	for key, value := range values {
		form.Values.Set(key, value)
	}
	return form
}

func validForm() *structs.ProductForm {
	return newForm(map[string]string{
		"name":  "Desk Lamp",
		"price": "49.90",
		"stock": "12",
	})
}

func withValues(form *structs.ProductForm, key string, values ...string) *structs.ProductForm {
	form.Values[key] = values
	return form
}

func withFiles(form *structs.ProductForm, key string, files ...*structs.UploadedFile) *structs.ProductForm {
	form.Files[key] = files
	return form
}

func testLogger() *gecho.Logger {
	return gecho.NewDefaultLogger()
}

// memoryStorage is a FileStorage that keeps files in a map
type memoryStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	next    int
	failOn  string // "store" or "delete"

	allowDeletes int // deletes that still succeed when failOn is "delete"
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (ms *memoryStorage) Store(ctx context.Context, dir string, file *structs.UploadedFile) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.next++
	stored := path.Join(dir, fmt.Sprintf("file-%d%s", ms.next, path.Ext(file.Name)))
	if ms.failOn == "store" {
		return "", &lib.StorageError{Op: "store", Path: stored, Err: errors.New("disk full")}
	}

	ms.files[stored] = file.Content
	return stored, nil
}

func (ms *memoryStorage) Delete(ctx context.Context, stored string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.failOn == "delete" && ms.allowDeletes == 0 {
		return &lib.StorageError{Op: "delete", Path: stored, Err: errors.New("permission denied")}
	}

	if ms.allowDeletes > 0 {
		ms.allowDeletes--
	}
	delete(ms.files, stored)
	ms.deleted = append(ms.deleted, stored)
	return nil
}

func (ms *memoryStorage) has(stored string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	_, ok := ms.files[stored]
	return ok
}

func (ms *memoryStorage) count() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.files)
}

type serviceFixture struct {
	service *ProductService
	repo    *ProductRepository
	storage *memoryStorage
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	repo := NewProductRepository(dbtest.Open(t))
	storage := newMemoryStorage()

	return &serviceFixture{
		service: NewProductService(testLogger(), repo, storage, nil, 2048),
		repo:    repo,
		storage: storage,
	}
}

// stubLookup answers validation lookups from fixed data
type stubLookup struct {
	skus      map[string]int64 // sku -> owning product id
	galleries map[int64]bool
	calls     int
}

func (s *stubLookup) SKUTaken(ctx context.Context, sku string, exceptID int64) (bool, error) {
	s.calls++
	owner, ok := s.skus[sku]
	return ok && owner != exceptID, nil
}

func (s *stubLookup) ExistingGalleryIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	s.calls++
	out := map[int64]bool{}
	for _, id := range ids {
		if s.galleries[id] {
			out[id] = true
		}
	}
	return out, nil
}

func formValues(values url.Values) *structs.ProductForm {
	form := structs.NewProductForm()
	form.Values = values
	return form
}
