package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/andrewpaige1/tcm-study-api/catalog"
)

type catalogResponse struct {
	*catalog.Catalog
	GroupList []catalog.Group `json:"groupList,omitempty"`
}

// GetCatalog serves the reconciled tree of a kind. The categories,
// subcategories and groups query parameters narrow it down.
func (db *DBHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	kind, err := catalog.ParseKind(r.PathValue("kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, ok := db.loadCatalog(w, r, kind)
	if !ok {
		return
	}

	q := r.URL.Query()
	c = c.Filter(listParam(q["categories"]), listParam(q["subcategories"]), listParam(q["groups"]))
	writeJSON(w, http.StatusOK, catalogResponse{Catalog: c, GroupList: c.Groups.Groups()})
}

// loadCatalog writes a 502 when any upstream part of the catalog is
// unavailable.
func (db *DBHandler) loadCatalog(w http.ResponseWriter, r *http.Request, kind catalog.Kind) (*catalog.Catalog, bool) {
	c, err := db.Catalog.Load(r.Context(), kind)
	if err != nil {
		db.Log.Error("catalog unavailable", "kind", kind, "error", err)
		http.Error(w, "Catalog data is unavailable, try again later", http.StatusBadGateway)
		return nil, false
	}
	return c, true
}

// listParam accepts both repeated and comma separated values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// treeFiles are the only files served from the data directory.
var treeFiles = map[string]bool{
	catalog.FormulaTreeFile: true,
	catalog.HerbTreeFile:    true,
	catalog.HerbGroupsFile:  true,
}

func serveTreeFile(dataDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file := r.PathValue("file")
		if !treeFiles[file] {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, filepath.Join(dataDir, file))
	}
}
