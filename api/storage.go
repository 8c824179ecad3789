package api

import (
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// storageRoutesManager serves the local public root, e.g. /storage/products/<file>.png
type storageRoutesManager struct {
	mount string
	root  string
}

func newStorageRoutesManager(mount, root string) *storageRoutesManager {
	return &storageRoutesManager{
		mount: "/" + strings.Trim(mount, "/"),
		root:  root,
	}
}

func (srm *storageRoutesManager) RegisterRoutes(r chi.Router) {
	files := http.StripPrefix(srm.mount, http.FileServer(http.Dir(srm.root)))

	r.Get(srm.mount+"/*", func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			gecho.NotFound(w, gecho.Send())
			return
		}
		files.ServeHTTP(w, r)
	})
}
