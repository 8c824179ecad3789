package handling

import (
	"catalog_server/lib"
	"catalog_server/structs"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// MethodField is the form field that carries an overridden HTTP method
const MethodField = "_method"

var ErrInvalidProductID = errors.New("invalid product id")

// ParsePage reads the page query parameter. Absent, malformed or
// non-positive values give page 1.
func ParsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParseProductID reads the {id} route parameter as a positive integer
func ParseProductID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProductID, idStr)
	}
	return id, nil
}

// ParseProductForm reads a multipart or urlencoded product payload.
// Bracketed keys are collapsed so that "gallery_images[]" and
// "remove_gallery_ids[0]" land under their base name, ordered by index.
func ParseProductForm(r *http.Request, maxMemory int64) (*structs.ProductForm, error) {
	form := structs.NewProductForm()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	for name, values := range collapse(r.PostForm) {
		if name == MethodField {
			continue
		}
		form.Values[name] = values
	}

	if r.MultipartForm != nil {
		for name, headers := range collapse(r.MultipartForm.File) {
			files := make([]*structs.UploadedFile, 0, len(headers))
			for _, header := range headers {
				file, err := readUpload(header)
				if err != nil {
					return nil, err
				}
				files = append(files, file)
			}
			form.Files[name] = files
		}
	}

	return form, nil
}

type indexedKey struct {
	key   string
	index int
}

// collapse merges bracketed keys into their base name. Plain and "[]" keys
// come first, then numeric indexes in ascending order.
func collapse[T any](source map[string][]T) map[string][]T {
	groups := make(map[string][]indexedKey)
	for key := range source {
		name, index := lib.NormalizeFormKey(key)
		groups[name] = append(groups[name], indexedKey{key: key, index: index})
	}

	out := make(map[string][]T, len(groups))
	for name, keys := range groups {
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].index != keys[j].index {
				return keys[i].index < keys[j].index
			}
			return keys[i].key < keys[j].key
		})

		var merged []T
		for _, k := range keys {
			merged = append(merged, source[k.key]...)
		}
		out[name] = merged
	}
	return out
}

func readUpload(header *multipart.FileHeader) (*structs.UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", header.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %q: %w", header.Filename, err)
	}

	return &structs.UploadedFile{
		Name:    header.Filename,
		Size:    header.Size,
		Content: content,
	}, nil
}
