package services

import (
	"catalog_server/lib"
	"catalog_server/structs"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/MonkyMars/gecho"
)

// Directories under the public root that hold product images
const (
	FeatureImageDir = "products"
	GalleryImageDir = "products/gallery"
)

// FileStorage persists uploaded files and removes them by their stored path
type FileStorage interface {
	// Store writes file under dir and returns its stored path, relative to the public root
	Store(ctx context.Context, dir string, file *structs.UploadedFile) (string, error)
	// Delete removes a stored file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error
}

// NewFileStorage builds the storage driver selected in configuration
func NewFileStorage(ctx context.Context, logger *gecho.Logger, cfg *structs.StorageConfig) (FileStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(logger, cfg.PublicRoot), nil
	case "s3":
		return NewS3Storage(ctx, logger, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// LocalStorage keeps files on the local disk under a public root directory
type LocalStorage struct {
	logger *gecho.Logger
	root   string
}

func NewLocalStorage(logger *gecho.Logger, root string) *LocalStorage {
	return &LocalStorage{
		logger: logger,
		root:   root,
	}
}

func (ls *LocalStorage) Root() string {
	return ls.root
}

func (ls *LocalStorage) Store(ctx context.Context, dir string, file *structs.UploadedFile) (string, error) {
	stored := path.Join(dir, storedFileName(file))

	full, err := ls.resolve(stored)
	if err != nil {
		return "", &lib.StorageError{Op: "store", Path: stored, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return "", &lib.StorageError{Op: "store", Path: stored, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", &lib.StorageError{Op: "store", Path: stored, Err: err}
	}

	if err := os.WriteFile(full, file.Content, 0o644); err != nil {
		return "", &lib.StorageError{Op: "store", Path: stored, Err: err}
	}

	ls.logger.Debug("Stored file",
		gecho.Field("path", stored),
		gecho.Field("size", file.Size),
	)

	return stored, nil
}

func (ls *LocalStorage) Delete(ctx context.Context, stored string) error {
	full, err := ls.resolve(stored)
	if err != nil {
		return &lib.StorageError{Op: "delete", Path: stored, Err: err}
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &lib.StorageError{Op: "delete", Path: stored, Err: err}
	}

	ls.logger.Debug("Deleted file", gecho.Field("path", stored))
	return nil
}

// resolve maps a stored path to a file under the root, refusing anything that escapes it
func (ls *LocalStorage) resolve(stored string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(stored))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the storage root", stored)
	}
	return filepath.Join(ls.root, clean), nil
}

// storedFileName is a random name carrying the extension of the sniffed content type
func storedFileName(file *structs.UploadedFile) string {
	ext := strings.ToLower(path.Ext(file.Name))
	if image, ok := lib.DetectImage(file.Content); ok {
		ext = image.Extension
	}
	return lib.GenerateFileToken() + ext
}
