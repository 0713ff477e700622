package catalog

import "strings"

// Resolver finds the remote record for a local entry. Name joins are the
// only implementation today; a stable-id join would slot in here.
type Resolver interface {
	Resolve(local Entry) (Entry, bool)
	Name() string
}

// NameResolver joins on normalized name strings against one collection.
type NameResolver struct {
	collection string
	provenance Provenance
	records    []Entry
	index      map[string]int
}

// NewNameResolver indexes records by every normalized candidate name. When
// several records share a key the earliest record wins.
func NewNameResolver(collection string, provenance Provenance, records []Entry) *NameResolver {
	r := &NameResolver{
		collection: collection,
		provenance: provenance,
		records:    records,
		index:      make(map[string]int, len(records)),
	}
	for i, rec := range records {
		for _, k := range NameKeys(rec.Candidates()) {
			if _, ok := r.index[k]; !ok {
				r.index[k] = i
			}
		}
	}
	return r
}

func (r *NameResolver) Name() string { return r.collection }

// Resolve returns the first record, in collection order, sharing any
// normalized name with local.
func (r *NameResolver) Resolve(local Entry) (Entry, bool) {
	best := -1
	for _, k := range NameKeys(local.Candidates()) {
		if i, ok := r.index[k]; ok && (best < 0 || i < best) {
			best = i
		}
	}
	if best < 0 {
		return Entry{}, false
	}
	rec := r.records[best]
	rec.Provenance = rec.Provenance.Or(r.provenance)
	return rec, true
}

// Chain is an ordered list of resolvers. The first resolver with a hit wins.
type Chain []Resolver

func (c Chain) Resolve(local Entry) (Entry, string, bool) {
	for _, r := range c {
		if rec, ok := r.Resolve(local); ok {
			return rec, r.Name(), true
		}
	}
	return Entry{}, "", false
}

// Merge combines a local entry with its remote match. Non-empty local fields
// always win; remote fields fill the gaps and provenance is OR-ed.
func Merge(local, remote Entry) Entry {
	out := local
	if len(out.PinyinNames) == 0 {
		out.PinyinNames = remote.PinyinNames
	}
	if len(out.EnglishNames) == 0 {
		out.EnglishNames = remote.EnglishNames
	}
	if len(out.Ingredients) == 0 {
		out.Ingredients = remote.Ingredients
	}
	fill(&out.Name, remote.Name)
	fill(&out.PharmaceuticalName, remote.PharmaceuticalName)
	fill(&out.Category, remote.Category)
	fill(&out.Subcategory, remote.Subcategory)
	fill(&out.KeyActions, remote.KeyActions)
	fill(&out.Explanation, remote.Explanation)
	fill(&out.Actions, remote.Actions)
	out.Provenance = local.Provenance.Or(remote.Provenance)
	return out
}

func fill(dst *string, src string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = src
	}
}

// Catalog is a reconciled tree plus the optional herb groups tree.
type Catalog struct {
	Kind   Kind  `json:"kind"`
	Tree   *Tree `json:"tree"`
	Groups *Tree `json:"groups,omitempty"`
}

// Entries returns the matched entries of the main tree in tree order. An
// entry listed under several subcategories appears once per listing.
func (c *Catalog) Entries() []Entry {
	return matchedEntries(c.Tree)
}

// Reconcile resolves every entry of tree against the chain in place.
// Unmatched entries stay in the tree with Matched unset. It returns the
// number of matched entries.
func Reconcile(tree *Tree, chain Chain) int {
	if tree == nil {
		return 0
	}
	matched := 0
	tree.Walk(func(_, _, _ int, e *Entry) bool {
		rec, source, ok := chain.Resolve(*e)
		if !ok {
			e.Matched = false
			e.Badge = ""
			return true
		}
		merged := Merge(*e, rec)
		merged.Source = source
		merged.Matched = true
		merged.Badge = merged.Provenance.Badge()
		*e = merged
		matched++
		return true
	})
	return matched
}

func matchedEntries(t *Tree) []Entry {
	if t == nil {
		return nil
	}
	var out []Entry
	t.Walk(func(_, _, _ int, e *Entry) bool {
		if e.Matched {
			out = append(out, *e)
		}
		return true
	})
	return out
}
