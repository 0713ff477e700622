package game

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
)

const OptionCount = 4

// ErrInsufficientData means the pool has fewer than OptionCount distinct
// answers. It is a user-facing condition, not a failure.
var ErrInsufficientData = errors.New("not enough items for this selection, broaden your selection")

type Option struct {
	Label string `json:"label"`
	Key   string `json:"-"`
	Side  Side   `json:"-"`
}

type Question struct {
	ID          string   `json:"id"`
	Mode        Mode     `json:"mode"`
	Prompt      string   `json:"prompt"`
	Options     []Option `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Subject     Pair     `json:"subject"`
}

func (q Question) Correct() Option {
	return q.Options[q.AnswerIndex]
}

// UniqueAnswers counts the distinct answer keys in pool.
func UniqueAnswers(s Strategy, pool []Pair) int {
	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		seen[s.Answer(p).Key()] = struct{}{}
	}
	return len(seen)
}

// GenerateQuestion builds one question from pool. With index set the
// subject is pool[*index % len(pool)], otherwise it is drawn uniformly among
// the pairs that can be asked about. Pools with fewer than OptionCount
// distinct answers, and subjects left with fewer than OptionCount-1 distinct
// wrong answers, are refused with ErrInsufficientData.
func GenerateQuestion(pool []Pair, s Strategy, rng *rand.Rand, index *int) (Question, error) {
	if len(pool) == 0 || UniqueAnswers(s, pool) < OptionCount {
		return Question{}, ErrInsufficientData
	}

	if index != nil {
		i := *index % len(pool)
		if i < 0 {
			i += len(pool)
		}
		return buildQuestion(pool[i], pool, s, rng)
	}
	for _, i := range rng.Perm(len(pool)) {
		if Askable(s, pool[i], pool) {
			return buildQuestion(pool[i], pool, s, rng)
		}
	}
	return Question{}, ErrInsufficientData
}

// Askable reports whether subject has enough distinct wrong answers in pool
// for a full question.
func Askable(s Strategy, subject Pair, pool []Pair) bool {
	correct := s.Answer(subject).Key()
	seen := map[string]struct{}{correct: {}}
	for _, d := range s.Distractors(subject, pool) {
		seen[d.Key()] = struct{}{}
		if len(seen) >= OptionCount {
			return true
		}
	}
	return false
}

func buildQuestion(subject Pair, pool []Pair, s Strategy, rng *rand.Rand) (Question, error) {
	correct := s.Answer(subject)
	distractors := pickDistractors(correct.Key(), s.Distractors(subject, pool), rng, OptionCount-1)
	if len(distractors) < OptionCount-1 {
		return Question{}, ErrInsufficientData
	}
	sides := Shuffle(rng, append([]Side{correct}, distractors...))

	q := Question{
		ID:          uuid.NewString(),
		Mode:        s.Mode(),
		Prompt:      s.Prompt(subject),
		Options:     make([]Option, 0, len(sides)),
		AnswerIndex: -1,
		Subject:     subject,
	}
	correctKey := correct.Key()
	for i, side := range sides {
		key := side.Key()
		if key == correctKey {
			q.AnswerIndex = i
		}
		q.Options = append(q.Options, Option{Label: side.Label(), Key: key, Side: side})
	}
	return q, nil
}

// pickDistractors drops candidates sharing the correct key, dedups the rest
// by key, shuffles them and keeps at most n.
func pickDistractors(correctKey string, candidates []Side, rng *rand.Rand, n int) []Side {
	seen := map[string]struct{}{correctKey: {}}
	unique := make([]Side, 0, len(candidates))
	for _, c := range candidates {
		k := c.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, c)
	}
	unique = Shuffle(rng, unique)
	if len(unique) > n {
		unique = unique[:n]
	}
	return unique
}
