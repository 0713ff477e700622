package game

import (
	"sort"
	"strings"

	"github.com/andrewpaige1/tcm-study-api/catalog"
)

// Side is one half of a pair: a display string, a set of names, or an entry.
type Side struct {
	Text  string         `json:"text,omitempty"`
	Names []string       `json:"names,omitempty"`
	Entry *catalog.Entry `json:"entry,omitempty"`
}

func TextSide(s string) Side { return Side{Text: strings.TrimSpace(s)} }

func NamesSide(names []string) Side { return Side{Names: names} }

func EntrySide(e catalog.Entry) Side { return Side{Entry: &e} }

// Label is what the player sees.
func (s Side) Label() string {
	switch {
	case s.Entry != nil:
		name := s.Entry.DisplayName()
		if p := strings.TrimSpace(s.Entry.PharmaceuticalName); p != "" && catalog.Normalize(p) != catalog.Normalize(name) {
			return name + " (" + p + ")"
		}
		return name
	case len(s.Names) > 0:
		return strings.Join(s.Names, ", ")
	}
	return s.Text
}

// Key is the comparison key. Entries compare by normalized name plus
// pharmaceutical name, name sets by their sorted normalized names, and
// plain strings as they are.
func (s Side) Key() string {
	switch {
	case s.Entry != nil:
		return s.Entry.Key()
	case len(s.Names) > 0:
		keys := catalog.NameKeys(s.Names)
		sort.Strings(keys)
		return strings.Join(keys, ",")
	}
	return s.Text
}

func (s Side) IsZero() bool {
	return s.Entry == nil && len(s.Names) == 0 && s.Text == ""
}

// Pair is one matchup of the game.
type Pair struct {
	Left        Side   `json:"left"`
	Right       Side   `json:"right"`
	Mode        Mode   `json:"mode"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	Group       string `json:"group,omitempty"`
}

func (p Pair) Key() string {
	return p.Left.Key() + "||" + p.Right.Key()
}

// Dedupe drops pairs whose key was already seen, keeping the first.
func Dedupe(pairs []Pair) []Pair {
	seen := make(map[string]struct{}, len(pairs))
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		if p.Left.IsZero() || p.Right.IsZero() {
			continue
		}
		k := p.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
