package game

import (
	"fmt"
	"strings"

	"github.com/andrewpaige1/tcm-study-api/catalog"
)

type Mode string

const (
	ModeKeyActions  Mode = "keyActions"
	ModeCategory    Mode = "category"
	ModeGroup       Mode = "group"
	ModeIngredients Mode = "ingredients"
	ModeActions     Mode = "actions"
	ModeGroupMaster Mode = "groupMaster"
)

// Strategy builds the pair pool for one mode and knows how to ask about a
// pair.
type Strategy interface {
	Mode() Mode
	BuildPool(c *catalog.Catalog) []Pair
	Answer(p Pair) Side
	Distractors(p Pair, pool []Pair) []Side
	Prompt(p Pair) string
}

var strategies = map[Mode]Strategy{
	ModeKeyActions:  keyActionsStrategy{},
	ModeCategory:    categoryStrategy{},
	ModeGroup:       groupStrategy{},
	ModeIngredients: ingredientsStrategy{},
	ModeActions:     actionsStrategy{},
	ModeGroupMaster: groupMasterStrategy{},
}

func StrategyFor(mode Mode) (Strategy, error) {
	s, ok := strategies[mode]
	if !ok {
		return nil, fmt.Errorf("unknown game mode %q", mode)
	}
	return s, nil
}

func Modes() []Mode {
	return []Mode{ModeKeyActions, ModeCategory, ModeGroup, ModeIngredients, ModeActions, ModeGroupMaster}
}

// rightAnswers is the distractor pool shared by every mode: the answers of
// the other pairs. An answer that some pair with the same left side also
// gives is correct for p too, so it is never offered as a distractor. A herb
// studied in two groups therefore never sees its second group as a wrong
// option.
func rightAnswers(p Pair, pool []Pair) []Side {
	left := p.Left.Key()
	alsoCorrect := map[string]struct{}{p.Right.Key(): {}}
	for _, q := range pool {
		if q.Left.Key() == left {
			alsoCorrect[q.Right.Key()] = struct{}{}
		}
	}
	out := make([]Side, 0, len(pool))
	for _, q := range pool {
		if _, ok := alsoCorrect[q.Right.Key()]; ok {
			continue
		}
		out = append(out, q.Right)
	}
	return out
}

// name <-> key actions

type keyActionsStrategy struct{}

func (keyActionsStrategy) Mode() Mode { return ModeKeyActions }

func (keyActionsStrategy) BuildPool(c *catalog.Catalog) []Pair {
	var pairs []Pair
	for _, e := range c.Entries() {
		text := e.KeyActions
		if strings.TrimSpace(text) == "" {
			text = e.ActionsText()
		}
		pairs = append(pairs, Pair{
			Left:        EntrySide(e),
			Right:       TextSide(text),
			Mode:        ModeKeyActions,
			Category:    e.Category,
			Subcategory: e.Subcategory,
		})
	}
	return Dedupe(pairs)
}

func (keyActionsStrategy) Answer(p Pair) Side { return p.Right }

func (keyActionsStrategy) Distractors(p Pair, pool []Pair) []Side { return rightAnswers(p, pool) }

func (keyActionsStrategy) Prompt(p Pair) string {
	return fmt.Sprintf("What are the key actions of %s?", p.Left.Label())
}

// name <-> category

type categoryStrategy struct{}

func (categoryStrategy) Mode() Mode { return ModeCategory }

func CategoryLabel(category, subcategory string) string {
	category, subcategory = strings.TrimSpace(category), strings.TrimSpace(subcategory)
	if subcategory == "" {
		return category
	}
	return category + ": " + subcategory
}

func (categoryStrategy) BuildPool(c *catalog.Catalog) []Pair {
	var pairs []Pair
	for _, e := range c.Entries() {
		pairs = append(pairs, Pair{
			Left:        EntrySide(e),
			Right:       TextSide(CategoryLabel(e.Category, e.Subcategory)),
			Mode:        ModeCategory,
			Category:    e.Category,
			Subcategory: e.Subcategory,
		})
	}
	return Dedupe(pairs)
}

func (categoryStrategy) Answer(p Pair) Side { return p.Right }

func (categoryStrategy) Distractors(p Pair, pool []Pair) []Side { return rightAnswers(p, pool) }

func (categoryStrategy) Prompt(p Pair) string {
	return fmt.Sprintf("Which category does %s belong to?", p.Left.Label())
}

// name <-> group

type groupStrategy struct{}

func (groupStrategy) Mode() Mode { return ModeGroup }

func (groupStrategy) BuildPool(c *catalog.Catalog) []Pair {
	var pairs []Pair
	for _, g := range c.Groups.Groups() {
		for _, e := range g.Entries {
			pairs = append(pairs, Pair{
				Left:  TextSide(e.DisplayName()),
				Right: TextSide(g.Name),
				Mode:  ModeGroup,
				Group: g.Name,
			})
		}
	}
	return Dedupe(pairs)
}

func (groupStrategy) Answer(p Pair) Side { return p.Right }

func (groupStrategy) Distractors(p Pair, pool []Pair) []Side { return rightAnswers(p, pool) }

func (groupStrategy) Prompt(p Pair) string {
	return fmt.Sprintf("Which group is %s studied in?", p.Left.Label())
}

// ingredients <-> formula name

type ingredientsStrategy struct{}

func (ingredientsStrategy) Mode() Mode { return ModeIngredients }

func (ingredientsStrategy) BuildPool(c *catalog.Catalog) []Pair {
	if c.Kind != catalog.KindFormula {
		return nil
	}
	var pairs []Pair
	for _, e := range c.Entries() {
		names := e.IngredientNames()
		if len(names) == 0 {
			continue
		}
		pairs = append(pairs, Pair{
			Left:        NamesSide(names),
			Right:       EntrySide(e),
			Mode:        ModeIngredients,
			Category:    e.Category,
			Subcategory: e.Subcategory,
		})
	}
	return Dedupe(pairs)
}

func (ingredientsStrategy) Answer(p Pair) Side { return p.Right }

func (ingredientsStrategy) Distractors(p Pair, pool []Pair) []Side { return rightAnswers(p, pool) }

func (ingredientsStrategy) Prompt(p Pair) string {
	return fmt.Sprintf("Which formula contains: %s?", p.Left.Label())
}

// actions <-> formula name

type actionsStrategy struct{}

func (actionsStrategy) Mode() Mode { return ModeActions }

func (actionsStrategy) BuildPool(c *catalog.Catalog) []Pair {
	var pairs []Pair
	for _, e := range c.Entries() {
		text := e.ActionsText()
		if text == "" {
			continue
		}
		pairs = append(pairs, Pair{
			Left:        TextSide(text),
			Right:       EntrySide(e),
			Mode:        ModeActions,
			Category:    e.Category,
			Subcategory: e.Subcategory,
		})
	}
	return Dedupe(pairs)
}

func (actionsStrategy) Answer(p Pair) Side { return p.Right }

func (actionsStrategy) Distractors(p Pair, pool []Pair) []Side { return rightAnswers(p, pool) }

func (actionsStrategy) Prompt(p Pair) string {
	return fmt.Sprintf("Which one is described by: %s", p.Left.Label())
}

// herbs sharing a group -> group name

type groupMasterStrategy struct{}

func (groupMasterStrategy) Mode() Mode { return ModeGroupMaster }

func (groupMasterStrategy) BuildPool(c *catalog.Catalog) []Pair {
	var pairs []Pair
	for _, g := range c.Groups.Groups() {
		names := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			names = append(names, e.DisplayName())
		}
		if len(names) == 0 {
			continue
		}
		pairs = append(pairs, Pair{
			Left:  NamesSide(names),
			Right: TextSide(g.Name),
			Mode:  ModeGroupMaster,
			Group: g.Name,
		})
	}
	return Dedupe(pairs)
}

func (groupMasterStrategy) Answer(p Pair) Side { return p.Right }

func (groupMasterStrategy) Distractors(p Pair, pool []Pair) []Side { return rightAnswers(p, pool) }

func (groupMasterStrategy) Prompt(p Pair) string {
	return fmt.Sprintf("Which group do these herbs share: %s?", p.Left.Label())
}
