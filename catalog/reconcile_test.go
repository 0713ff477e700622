package catalog

import (
	"encoding/json"
	"testing"
)

func TestReconcileMergesByNormalizedName(t *testing.T) {
	tree := &Tree{Kind: KindHerb, Categories: []Category{{
		Title: "Tonify",
		Subcategories: []Subcategory{{Title: "Qi", Entries: []Entry{
			{PinyinNames: []string{"Ren Shen"}, Category: "Tonify", Subcategory: "Qi"},
			{PinyinNames: []string{"Unknown Herb"}},
		}}},
	}}}
	remote := []Entry{{PinyinNames: []string{"renshen"}, Provenance: Provenance{NCCAOM: true}, Category: "Remote", KeyActions: "Tonifies qi"}}
	chain := Chain{NewNameResolver("nccaomherbs", Provenance{}, remote)}

	if n := Reconcile(tree, chain); n != 1 {
		t.Fatalf("expected 1 match, got %d", n)
	}
	got := tree.Categories[0].Subcategories[0].Entries
	if !got[0].Matched || got[0].Badge != BadgeNCCAOM || got[0].Source != "nccaomherbs" {
		t.Fatalf("unexpected merge result %+v", got[0])
	}
	if got[0].Category != "Tonify" {
		t.Fatalf("local category must win, got %q", got[0].Category)
	}
	if got[0].KeyActions != "Tonifies qi" {
		t.Fatalf("remote should fill empty fields, got %q", got[0].KeyActions)
	}
	if got[1].Matched || got[1].Badge != "" {
		t.Fatalf("unmatched entry should stay inert, got %+v", got[1])
	}
	entries := (&Catalog{Tree: tree}).Entries()
	if len(entries) != 1 {
		t.Fatalf("unmatched entries are excluded from play, got %d", len(entries))
	}
}

func TestChainFirstMatchWins(t *testing.T) {
	combined := NewNameResolver("caleandnccaomherbs", Provenance{CALEAndNCCAOM: true},
		[]Entry{{Name: "Gan Cao", KeyActions: "combined"}})
	extra := NewNameResolver("extraherbs", Provenance{Extra: true},
		[]Entry{{Name: "Gan Cao", KeyActions: "extra"}, {Name: "Da Zao"}})

	_, source, ok := Chain{combined, extra}.Resolve(Entry{EnglishNames: []string{"gan-cao"}})
	if !ok || source != "caleandnccaomherbs" {
		t.Fatalf("expected the first collection to win, got %q", source)
	}

	tree := &Tree{Categories: []Category{{Subcategories: []Subcategory{{Entries: []Entry{{Name: "Gān Cǎo", Extra: true}}}}}}}
	Reconcile(tree, Chain{combined, extra})
	if b := tree.Categories[0].Subcategories[0].Entries[0].Badge; b != BadgeCombined {
		t.Fatalf("combined must beat extra, got %q", b)
	}
}

func TestNameResolverEarliestRecordWins(t *testing.T) {
	r := NewNameResolver("c", Provenance{}, []Entry{
		{Name: "Ma Huang", KeyActions: "first"},
		{PinyinNames: []string{"Gui Zhi"}, EnglishNames: []string{"Ephedra"}, KeyActions: "second"},
	})
	rec, ok := r.Resolve(Entry{EnglishNames: []string{"Ephedra"}, Name: "ma huang"})
	if !ok || rec.KeyActions != "first" {
		t.Fatalf("expected earliest record, got %+v", rec)
	}
}

func TestMergeLocalWins(t *testing.T) {
	local := Entry{Name: "Local", Explanation: "local text"}
	remote := Entry{Name: "Remote", Explanation: "remote text", PharmaceuticalName: "Radix", Provenance: Provenance{CALE: true}}
	got := Merge(local, remote)
	if got.Name != "Local" || got.Explanation != "local text" || got.PharmaceuticalName != "Radix" || !got.CALE {
		t.Fatalf("Merge() = %+v", got)
	}
}

func TestGroups(t *testing.T) {
	tree := &Tree{Categories: []Category{
		{Title: "Pairs", Subcategories: []Subcategory{
			{Title: "A", Entries: []Entry{{Name: "x", Matched: true}, {Name: "y"}}},
			{Title: "B", Entries: []Entry{{Name: "y"}}},
		}},
		{Title: "Solo", Subcategories: []Subcategory{{Entries: []Entry{{Name: "z", Matched: true}}}}},
	}}
	groups := tree.Groups()
	if len(groups) != 2 || groups[0].Name != "A" || len(groups[0].Entries) != 1 || groups[1].Name != "Solo" {
		t.Fatalf("Groups() = %+v", groups)
	}
}

func TestReconcileFromRawDocuments(t *testing.T) {
	tree, err := ParseTree(KindHerb, []byte(`[{"category": "Tonify", "subcategories": [
		{"title": "Qi", "herbs": [{"pinyinName": "Ren Shen"}]}
	]}]`))
	if err != nil {
		t.Fatalf("ParseTree() error = %v", err)
	}
	recs, err := ParseRawRecords([]json.RawMessage{
		json.RawMessage(`{"pinyinName": "renshen", "nccaom": "yes"}`),
	})
	if err != nil {
		t.Fatalf("ParseRawRecords() error = %v", err)
	}
	chain := Chain{NewNameResolver("herbs", Provenance{}, recs)}

	if n := Reconcile(tree, chain); n != 1 {
		t.Fatalf("expected 1 match, got %d", n)
	}
	got := tree.Categories[0].Subcategories[0].Entries
	if len(got) != 1 {
		t.Fatalf("expected the entries to merge into one, got %d", len(got))
	}
	if !got[0].Matched || got[0].Badge != "NCCAOM" || got[0].DisplayName() != "Ren Shen" {
		t.Fatalf("unexpected merge result %+v", got[0])
	}
}
