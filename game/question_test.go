package game

import (
	"errors"
	"sort"
	"testing"

	"github.com/andrewpaige1/tcm-study-api/catalog"
)

func matched(e catalog.Entry) catalog.Entry {
	e.Matched = true
	return e
}

func catalogOf(kind catalog.Kind, entries ...catalog.Entry) *catalog.Catalog {
	return &catalog.Catalog{
		Kind: kind,
		Tree: &catalog.Tree{
			Kind: kind,
			Categories: []catalog.Category{{
				Title:         "Release Exterior",
				Subcategories: []catalog.Subcategory{{Title: "Warm Acrid", Entries: entries}},
			}},
		},
	}
}

func actionsCatalog() *catalog.Catalog {
	return catalogOf(catalog.KindFormula,
		matched(catalog.Entry{PinyinNames: []string{"A"}, Actions: "x"}),
		matched(catalog.Entry{PinyinNames: []string{"B"}, Actions: "y"}),
		matched(catalog.Entry{PinyinNames: []string{"C"}, Actions: "z"}),
		matched(catalog.Entry{PinyinNames: []string{"D"}, Actions: "w"}),
	)
}

func labels(q Question) []string {
	out := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		out = append(out, o.Label)
	}
	return out
}

func TestGenerateQuestionNameToActions(t *testing.T) {
	s, _ := StrategyFor(ModeKeyActions)
	pool := s.BuildPool(actionsCatalog())
	if len(pool) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pool))
	}

	idx := 0
	q, err := GenerateQuestion(pool, s, NewSeededRand(7), &idx)
	if err != nil {
		t.Fatalf("GenerateQuestion() error = %v", err)
	}
	if got := q.Subject.Left.Label(); got != "A" {
		t.Fatalf("expected subject A, got %q", got)
	}

	got := labels(q)
	sort.Strings(got)
	want := []string{"w", "x", "y", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected options %v, got %v", want, got)
		}
	}
	if q.Options[q.AnswerIndex].Label != "x" {
		t.Fatalf("answer index %d points at %q, want x", q.AnswerIndex, q.Options[q.AnswerIndex].Label)
	}
	hits := 0
	for _, o := range q.Options {
		if o.Label == "x" {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("expected exactly one correct option, got %d", hits)
	}
}

func TestGenerateQuestionActionsToName(t *testing.T) {
	s, _ := StrategyFor(ModeActions)
	pool := s.BuildPool(actionsCatalog())

	idx := 2
	q, err := GenerateQuestion(pool, s, NewSeededRand(1), &idx)
	if err != nil {
		t.Fatalf("GenerateQuestion() error = %v", err)
	}
	if q.Options[q.AnswerIndex].Label != "C" {
		t.Fatalf("expected C to be the answer, got %q", q.Options[q.AnswerIndex].Label)
	}
	if q.Prompt != "Which one is described by: z" {
		t.Fatalf("unexpected prompt %q", q.Prompt)
	}
}

func TestGenerateQuestionOptionsDistinct(t *testing.T) {
	var entries []catalog.Entry
	for _, n := range []string{"Ma Huang", "Gui Zhi", "Zi Su Ye", "Sheng Jiang", "Xiang Ru", "Jing Jie", "Fang Feng"} {
		entries = append(entries, matched(catalog.Entry{PinyinNames: []string{n}, KeyActions: "actions of " + n}))
	}
	c := catalogOf(catalog.KindHerb, entries...)

	for _, mode := range []Mode{ModeKeyActions, ModeActions} {
		s, _ := StrategyFor(mode)
		pool := s.BuildPool(c)
		for seed := uint64(0); seed < 200; seed++ {
			q, err := GenerateQuestion(pool, s, NewSeededRand(seed), nil)
			if err != nil {
				t.Fatalf("%s: GenerateQuestion() error = %v", mode, err)
			}
			if len(q.Options) != OptionCount {
				t.Fatalf("%s: expected %d options, got %d", mode, OptionCount, len(q.Options))
			}
			seen := map[string]bool{}
			for _, o := range q.Options {
				if seen[o.Key] {
					t.Fatalf("%s: duplicate option %q in %v", mode, o.Key, labels(q))
				}
				seen[o.Key] = true
			}
			if q.Options[q.AnswerIndex].Key != s.Answer(q.Subject).Key() {
				t.Fatalf("%s: answer index does not point at the subject's answer", mode)
			}
		}
	}
}

func TestGenerateQuestionInsufficientData(t *testing.T) {
	s, _ := StrategyFor(ModeCategory)
	// Four entries but only three distinct category strings.
	c := &catalog.Catalog{Kind: catalog.KindHerb, Tree: &catalog.Tree{Categories: []catalog.Category{{
		Title: "Tonify",
		Subcategories: []catalog.Subcategory{
			{Title: "Qi", Entries: []catalog.Entry{
				matched(catalog.Entry{Name: "Ren Shen", Category: "Tonify", Subcategory: "Qi"}),
				matched(catalog.Entry{Name: "Huang Qi", Category: "Tonify", Subcategory: "Qi"}),
			}},
			{Title: "Blood", Entries: []catalog.Entry{matched(catalog.Entry{Name: "Dang Gui", Category: "Tonify", Subcategory: "Blood"})}},
			{Title: "Yin", Entries: []catalog.Entry{matched(catalog.Entry{Name: "Mai Men Dong", Category: "Tonify", Subcategory: "Yin"})}},
		},
	}}}}

	pool := s.BuildPool(c)
	if len(pool) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(pool))
	}
	if _, err := GenerateQuestion(pool, s, NewSeededRand(3), nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := GenerateQuestion(nil, s, NewSeededRand(3), nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData for empty pool, got %v", err)
	}
}

func TestPickDistractorsNeverRepeats(t *testing.T) {
	candidates := []Side{TextSide("correct"), TextSide("b"), TextSide("b"), TextSide("c")}
	got := pickDistractors("correct", candidates, NewSeededRand(9), 3)
	if len(got) != 2 {
		t.Fatalf("expected the 2 unique distractors only, got %v", got)
	}
	if got[0].Text == got[1].Text {
		t.Fatalf("distractors must be distinct: %v", got)
	}
	for _, s := range got {
		if s.Text == "correct" {
			t.Fatalf("distractors must not contain the correct answer: %v", got)
		}
	}
}

func TestPickDistractorsNoCandidates(t *testing.T) {
	got := pickDistractors("a", []Side{TextSide("a")}, NewSeededRand(1), 3)
	if len(got) != 0 {
		t.Fatalf("expected no distractors, got %v", got)
	}
}

func TestGenerateQuestionIndexWraps(t *testing.T) {
	s, _ := StrategyFor(ModeKeyActions)
	pool := s.BuildPool(actionsCatalog())
	idx := 5
	q, err := GenerateQuestion(pool, s, NewSeededRand(2), &idx)
	if err != nil {
		t.Fatalf("GenerateQuestion() error = %v", err)
	}
	if got := q.Subject.Left.Label(); got != "B" {
		t.Fatalf("expected index 5 to wrap to B, got %q", got)
	}
}
