package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrewpaige1/tcm-study-api/logger"
)

// TreeSource serves the static taxonomy files.
type TreeSource interface {
	Tree(ctx context.Context, file string) ([]byte, error)
}

// CollectionSource serves the flat remote collections as raw documents.
type CollectionSource interface {
	Collection(ctx context.Context, name string) ([]json.RawMessage, error)
}

type CollectionRef struct {
	Name       string
	Provenance Provenance
}

// Layout names the files and collections that make up one catalog kind.
// Collections are listed in resolution priority order.
type Layout struct {
	Kind        Kind
	TreeFile    string
	GroupsFile  string
	Collections []CollectionRef
}

const (
	FormulaTreeFile = "formulaCategoryListObject.json"
	HerbTreeFile    = "herbCategoryListObject.json"
	HerbGroupsFile  = "herbGroupsList.json"
)

var FormulaLayout = Layout{
	Kind:     KindFormula,
	TreeFile: FormulaTreeFile,
	Collections: []CollectionRef{
		{Name: "caleandnccaomformulas", Provenance: Provenance{CALEAndNCCAOM: true}},
		{Name: "nccaomformulas", Provenance: Provenance{NCCAOM: true}},
		{Name: "extraformulas", Provenance: Provenance{Extra: true}},
	},
}

var HerbLayout = Layout{
	Kind:       KindHerb,
	TreeFile:   HerbTreeFile,
	GroupsFile: HerbGroupsFile,
	Collections: []CollectionRef{
		{Name: "caleandnccaomherbs", Provenance: Provenance{CALEAndNCCAOM: true}},
		{Name: "nccaomherbs", Provenance: Provenance{NCCAOM: true}},
		{Name: "caleherbs", Provenance: Provenance{CALE: true}},
		{Name: "extraherbs", Provenance: Provenance{Extra: true}},
	},
}

func LayoutFor(kind Kind) Layout {
	if kind == KindHerb {
		return HerbLayout
	}
	return FormulaLayout
}

// Loader fetches every part of a catalog in parallel and reconciles it.
type Loader struct {
	Trees       TreeSource
	Collections CollectionSource
	Log         *logger.Logger
}

// Load fetches the tree, the groups tree and all collections concurrently.
// Any failed fetch fails the whole load.
func (l *Loader) Load(ctx context.Context, kind Kind) (*Catalog, error) {
	layout := LayoutFor(kind)
	started := time.Now()

	var (
		tree    *Tree
		groups  *Tree
		records = make([][]Entry, len(layout.Collections))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := l.Trees.Tree(gctx, layout.TreeFile)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", layout.TreeFile, err)
		}
		t, err := ParseTree(kind, data)
		if err != nil {
			return fmt.Errorf("parse %s: %w", layout.TreeFile, err)
		}
		tree = t
		return nil
	})
	if layout.GroupsFile != "" {
		g.Go(func() error {
			data, err := l.Trees.Tree(gctx, layout.GroupsFile)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", layout.GroupsFile, err)
			}
			t, err := ParseTree(kind, data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", layout.GroupsFile, err)
			}
			groups = t
			return nil
		})
	}
	for i, cs := range layout.Collections {
		g.Go(func() error {
			docs, err := l.Collections.Collection(gctx, cs.Name)
			if err != nil {
				return fmt.Errorf("fetch collection %s: %w", cs.Name, err)
			}
			recs, err := ParseRawRecords(docs)
			if err != nil {
				return fmt.Errorf("parse collection %s: %w", cs.Name, err)
			}
			records[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if l.Log != nil {
			l.Log.Error("catalog load failed", "kind", kind, "error", err)
		}
		return nil, err
	}

	chain := make(Chain, 0, len(layout.Collections))
	for i, cs := range layout.Collections {
		chain = append(chain, NewNameResolver(cs.Name, cs.Provenance, records[i]))
	}
	matched := Reconcile(tree, chain)
	Reconcile(groups, chain)

	if l.Log != nil {
		l.Log.Debug("catalog loaded",
			"kind", kind,
			"entries", tree.Len(),
			"matched", matched,
			"took", time.Since(started),
		)
	}
	return &Catalog{Kind: kind, Tree: tree, Groups: groups}, nil
}

// DirSource reads static files from a directory. Collections are read from
// "<name>.json" in the same directory.
type DirSource struct {
	Dir string
}

func (d DirSource) Tree(ctx context.Context, file string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if file != filepath.Base(file) {
		return nil, fmt.Errorf("invalid file name %q", file)
	}
	return os.ReadFile(filepath.Join(d.Dir, file))
}

func (d DirSource) Collection(ctx context.Context, name string) ([]json.RawMessage, error) {
	data, err := d.Tree(ctx, name+".json")
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode %s.json: %w", name, err)
	}
	return docs, nil
}

// HTTPSource reads the static files and collections from a running
// instance of the API.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

func (h HTTPSource) Tree(ctx context.Context, file string) ([]byte, error) {
	return h.get(ctx, "/data/"+file)
}

func (h HTTPSource) Collection(ctx context.Context, name string) ([]json.RawMessage, error) {
	data, err := h.get(ctx, "/api/data/"+name)
	if err != nil {
		return nil, err
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return docs, nil
}

func (h HTTPSource) get(ctx context.Context, path string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(h.BaseURL, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
