package catalog

// Filter returns a copy of t keeping only the named categories and
// subcategories. Names are compared normalized. An empty list keeps all.
func (t *Tree) Filter(categories, subcategories []string) *Tree {
	if t == nil {
		return nil
	}
	cats := keySet(categories)
	subs := keySet(subcategories)

	out := &Tree{Kind: t.Kind}
	for _, c := range t.Categories {
		if len(cats) > 0 && !cats[Normalize(c.Title)] {
			continue
		}
		kept := Category{Title: c.Title}
		for _, s := range c.Subcategories {
			if len(subs) > 0 && !subs[Normalize(s.Title)] {
				continue
			}
			kept.Subcategories = append(kept.Subcategories, Subcategory{
				Title:   s.Title,
				Entries: append([]Entry(nil), s.Entries...),
			})
		}
		if len(kept.Subcategories) > 0 {
			out.Categories = append(out.Categories, kept)
		}
	}
	return out
}

// Filter narrows the main tree by category/subcategory and the groups tree
// by group name.
func (c *Catalog) Filter(categories, subcategories, groups []string) *Catalog {
	return &Catalog{
		Kind:   c.Kind,
		Tree:   c.Tree.Filter(categories, subcategories),
		Groups: c.Groups.Filter(nil, groups),
	}
}

func keySet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if k := Normalize(n); k != "" {
			set[k] = true
		}
	}
	return set
}
