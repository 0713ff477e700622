package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind string

const (
	KindHerb    Kind = "herbs"
	KindFormula Kind = "formulas"
)

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "herb", "herbs":
		return KindHerb, nil
	case "formula", "formulas":
		return KindFormula, nil
	}
	return "", fmt.Errorf("unknown catalog kind %q", s)
}

// Provenance records which exam lists an entry appears on.
type Provenance struct {
	CALEAndNCCAOM bool `json:"caleAndNccaom,omitempty"`
	NCCAOM        bool `json:"nccaom,omitempty"`
	CALE          bool `json:"caleOnly,omitempty"`
	Extra         bool `json:"extra,omitempty"`
}

func (p Provenance) Or(o Provenance) Provenance {
	return Provenance{
		CALEAndNCCAOM: p.CALEAndNCCAOM || o.CALEAndNCCAOM,
		NCCAOM:        p.NCCAOM || o.NCCAOM,
		CALE:          p.CALE || o.CALE,
		Extra:         p.Extra || o.Extra,
	}
}

const (
	BadgeCombined = "CALE & NCCAOM"
	BadgeNCCAOM   = "NCCAOM"
	BadgeCALE     = "CALE"
	BadgeExtra    = "Extra"
)

// Badge resolves the display badge. Combined beats single-source, which
// beats extra.
func (p Provenance) Badge() string {
	switch {
	case p.CALEAndNCCAOM, p.NCCAOM && p.CALE:
		return BadgeCombined
	case p.NCCAOM:
		return BadgeNCCAOM
	case p.CALE:
		return BadgeCALE
	case p.Extra:
		return BadgeExtra
	}
	return ""
}

// Ingredient is one line of a formula. Dosage is often empty.
type Ingredient struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage,omitempty"`
}

// Entry is a herb or formula as it arrives from either dataset, and after
// reconciliation.
type Entry struct {
	PinyinNames        []string     `json:"pinyinName,omitempty"`
	Name               string       `json:"name,omitempty"`
	EnglishNames       []string     `json:"englishName,omitempty"`
	PharmaceuticalName string       `json:"pharmaceuticalName,omitempty"`
	Category           string       `json:"category,omitempty"`
	Subcategory        string       `json:"subcategory,omitempty"`
	KeyActions         string       `json:"keyActions,omitempty"`
	Explanation        string       `json:"explanation,omitempty"`
	Actions            string       `json:"actions,omitempty"`
	Ingredients        []Ingredient `json:"ingredients,omitempty"`
	Provenance

	Badge   string `json:"badge,omitempty"`
	Source  string `json:"source,omitempty"`
	Matched bool   `json:"matched"`
}

// DisplayName is the first pinyin name, then name, then english name.
func (e Entry) DisplayName() string {
	for _, n := range e.PinyinNames {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	if n := strings.TrimSpace(e.Name); n != "" {
		return n
	}
	for _, n := range e.EnglishNames {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return ""
}

// Candidates lists every name the entry can be joined on.
func (e Entry) Candidates() []string {
	out := make([]string, 0, len(e.PinyinNames)+len(e.EnglishNames)+1)
	out = append(out, e.PinyinNames...)
	if e.Name != "" {
		out = append(out, e.Name)
	}
	return append(out, e.EnglishNames...)
}

// ActionsText is the free-text description used by the actions modes.
func (e Entry) ActionsText() string {
	for _, s := range []string{e.KeyActions, e.Actions, e.Explanation} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (e Entry) IngredientNames() []string {
	out := make([]string, 0, len(e.Ingredients))
	for _, in := range e.Ingredients {
		if n := strings.TrimSpace(in.Name); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Key is the composite comparison key (name + pharmaceutical name).
func (e Entry) Key() string {
	return Normalize(e.DisplayName()) + "|" + Normalize(e.PharmaceuticalName)
}

// rawEntry mirrors the loose upstream field names.
type rawEntry struct {
	PinyinName            json.RawMessage `json:"pinyinName"`
	Pinyin                json.RawMessage `json:"pinyin"`
	Name                  json.RawMessage `json:"name"`
	Title                 string          `json:"title"`
	EnglishName           json.RawMessage `json:"englishName"`
	English               json.RawMessage `json:"english"`
	PharmaceuticalName    json.RawMessage `json:"pharmaceuticalName"`
	Category              string          `json:"category"`
	Subcategory           string          `json:"subcategory"`
	KeyActions            json.RawMessage `json:"keyActions"`
	Explanation           json.RawMessage `json:"explanation"`
	Actions               json.RawMessage `json:"actions"`
	Ingredients           json.RawMessage `json:"ingredients"`
	IngredientsAndDosages json.RawMessage `json:"ingredientsAndDosages"`
	NCCAOM                json.RawMessage `json:"nccaom"`
	CALEAndNCCAOM         json.RawMessage `json:"caleAndNccaom"`
	CALEOnly              json.RawMessage `json:"caleOnly"`
	Extra                 json.RawMessage `json:"extra"`
	Badge                 string          `json:"badge"`
	Source                string          `json:"source"`
	Matched               bool            `json:"matched"`
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*e = Entry{Name: strings.TrimSpace(name)}
		return nil
	}

	var raw rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Entry{
		PinyinNames:        append(stringList(raw.PinyinName), stringList(raw.Pinyin)...),
		Name:               firstString(raw.Name),
		EnglishNames:       append(stringList(raw.EnglishName), stringList(raw.English)...),
		PharmaceuticalName: firstString(raw.PharmaceuticalName),
		Category:           strings.TrimSpace(raw.Category),
		Subcategory:        strings.TrimSpace(raw.Subcategory),
		KeyActions:         joinedText(raw.KeyActions),
		Explanation:        joinedText(raw.Explanation),
		Actions:            joinedText(raw.Actions),
		Ingredients:        ingredientList(raw.Ingredients),
		Provenance: Provenance{
			CALEAndNCCAOM: truthy(raw.CALEAndNCCAOM),
			NCCAOM:        truthy(raw.NCCAOM),
			CALE:          truthy(raw.CALEOnly),
			Extra:         truthy(raw.Extra),
		},
		Badge:   raw.Badge,
		Source:  raw.Source,
		Matched: raw.Matched,
	}
	if out.Name == "" {
		out.Name = strings.TrimSpace(raw.Title)
	}
	if len(out.Ingredients) == 0 {
		out.Ingredients = ingredientList(raw.IngredientsAndDosages)
	}
	*e = out
	return nil
}

func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one = strings.TrimSpace(one); one != "" {
			return []string{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil
	}
	out := many[:0]
	for _, s := range many {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstString(raw json.RawMessage) string {
	if l := stringList(raw); len(l) > 0 {
		return l[0]
	}
	return ""
}

func joinedText(raw json.RawMessage) string {
	return strings.Join(stringList(raw), "; ")
}

func ingredientList(raw json.RawMessage) []Ingredient {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// A single comma separated string.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, json.RawMessage(strconv.Quote(part)))
			}
		}
	}
	out := make([]Ingredient, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, Ingredient{Name: name})
			}
			continue
		}
		var obj struct {
			Name       json.RawMessage `json:"name"`
			PinyinName json.RawMessage `json:"pinyinName"`
			Herb       json.RawMessage `json:"herb"`
			Dosage     string          `json:"dosage"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		n := firstString(obj.Name)
		if n == "" {
			n = firstString(obj.PinyinName)
		}
		if n == "" {
			n = firstString(obj.Herb)
		}
		if n != "" {
			out = append(out, Ingredient{Name: n, Dosage: strings.TrimSpace(obj.Dosage)})
		}
	}
	return out
}

func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "x", "1":
		return true
	}
	return false
}
