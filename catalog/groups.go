package catalog

// Group is a named set of herbs studied together.
type Group struct {
	Name    string
	Entries []Entry
}

// Groups flattens a groups tree. A subcategory title names its group; a
// subcategory without a title falls back to the category title. Only
// matched entries are included and groups left empty are dropped.
func (t *Tree) Groups() []Group {
	if t == nil {
		return nil
	}
	var out []Group
	pos := make(map[string]int)
	for _, c := range t.Categories {
		for _, s := range c.Subcategories {
			name := s.Title
			if name == "" {
				name = c.Title
			}
			if name == "" {
				continue
			}
			for _, e := range s.Entries {
				if !e.Matched {
					continue
				}
				k := Normalize(name)
				i, ok := pos[k]
				if !ok {
					i = len(out)
					pos[k] = i
					out = append(out, Group{Name: name})
				}
				out[i].Entries = append(out[i].Entries, e)
			}
		}
	}
	return out
}
