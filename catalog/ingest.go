package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownShape = errors.New("unrecognised catalog shape")

// Subcategory is a titled list of entries. In the herb groups tree the
// subcategory title is the group name.
type Subcategory struct {
	Title   string  `json:"title"`
	Entries []Entry `json:"entries"`
}

type Category struct {
	Title         string        `json:"category"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Tree is the ordered local taxonomy.
type Tree struct {
	Kind       Kind       `json:"kind"`
	Categories []Category `json:"categories"`
}

// Walk calls fn for every entry in tree order. Returning false stops the walk.
func (t *Tree) Walk(fn func(ci, si, ei int, e *Entry) bool) {
	for ci := range t.Categories {
		subs := t.Categories[ci].Subcategories
		for si := range subs {
			for ei := range subs[si].Entries {
				if !fn(ci, si, ei, &subs[si].Entries[ei]) {
					return
				}
			}
		}
	}
}

func (t *Tree) Len() int {
	n := 0
	t.Walk(func(_, _, _ int, _ *Entry) bool { n++; return true })
	return n
}

type rawSubcategory struct {
	Title       string          `json:"title"`
	Subcategory string          `json:"subcategory"`
	Name        string          `json:"name"`
	Formulas    json.RawMessage `json:"formulas"`
	Herbs       json.RawMessage `json:"herbs"`
	Entries     json.RawMessage `json:"entries"`
	Items       json.RawMessage `json:"items"`
}

type rawCategory struct {
	rawSubcategory
	Category      string           `json:"category"`
	Subcategories []rawSubcategory `json:"subcategories"`
}

func (r rawSubcategory) title() string {
	for _, s := range []string{r.Title, r.Subcategory, r.Name} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (r rawSubcategory) entries() (json.RawMessage, bool) {
	for _, raw := range []json.RawMessage{r.Formulas, r.Herbs, r.Entries, r.Items} {
		if len(raw) > 0 && string(raw) != "null" {
			return raw, true
		}
	}
	return nil, false
}

// ParseTree ingests a category tree. Both a bare array of categories and a
// {"categories": [...]} wrapper are accepted. Entries are stamped with the
// category and subcategory they sit under.
func ParseTree(kind Kind, data []byte) (*Tree, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrUnknownShape
	}

	var cats []rawCategory
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &cats); err != nil {
			return nil, fmt.Errorf("decode category array: %w", err)
		}
	case '{':
		var wrapper struct {
			Categories []rawCategory `json:"categories"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode category wrapper: %w", err)
		}
		if wrapper.Categories == nil {
			return nil, ErrUnknownShape
		}
		cats = wrapper.Categories
	default:
		return nil, ErrUnknownShape
	}

	tree := &Tree{Kind: kind, Categories: make([]Category, 0, len(cats))}
	for _, rc := range cats {
		title := strings.TrimSpace(rc.Category)
		if title == "" {
			title = rc.title()
		}
		cat := Category{Title: title}

		subs := rc.Subcategories
		if raw, ok := rc.entries(); ok {
			// Entries hung directly off the category.
			subs = append([]rawSubcategory{{Entries: raw}}, subs...)
		}
		for _, rs := range subs {
			sub := Subcategory{Title: rs.title()}
			if raw, ok := rs.entries(); ok {
				if err := json.Unmarshal(raw, &sub.Entries); err != nil {
					return nil, fmt.Errorf("decode entries of %q/%q: %w", cat.Title, sub.Title, err)
				}
			}
			for i := range sub.Entries {
				if sub.Entries[i].Category == "" {
					sub.Entries[i].Category = cat.Title
				}
				if sub.Entries[i].Subcategory == "" {
					sub.Entries[i].Subcategory = sub.Title
				}
			}
			cat.Subcategories = append(cat.Subcategories, sub)
		}
		tree.Categories = append(tree.Categories, cat)
	}
	return tree, nil
}

// ParseRecords ingests a flat collection. A {"data": [...]} wrapper is
// tolerated alongside a bare array.
func ParseRecords(data []byte) ([]Entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrUnknownShape
	}
	var out []Entry
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
	case '{':
		var wrapper struct {
			Data []Entry `json:"data"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decode records wrapper: %w", err)
		}
		if wrapper.Data == nil {
			return nil, ErrUnknownShape
		}
		out = wrapper.Data
	default:
		return nil, ErrUnknownShape
	}
	return out, nil
}

// ParseRawRecords ingests documents that already arrive split.
func ParseRawRecords(docs []json.RawMessage) ([]Entry, error) {
	out := make([]Entry, 0, len(docs))
	for i, doc := range docs {
		var e Entry
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
