package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// PagesController serves the storefront bundle. Paths that do not name a
// file fall back to index.html so client-side routes resolve.
type PagesController struct {
	Dir string
}

func NewPagesController(dir string) *PagesController {
	return &PagesController{Dir: dir}
}

func (pc *PagesController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clean := path.Clean("/" + r.URL.Path)
	full := filepath.Join(pc.Dir, filepath.FromSlash(clean))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		http.ServeFile(w, r, full)
		return
	}

	index := filepath.Join(pc.Dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, index)
}
