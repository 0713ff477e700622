package game

import (
	"errors"
	"math/rand/v2"

	"github.com/andrewpaige1/tcm-study-api/catalog"
)

type State string

const (
	StateAwaitingAnswer State = "awaiting_answer"
	StateAnswerRevealed State = "answer_revealed"
	StateFinished       State = "finished"
)

var (
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("question not answered yet")
	ErrFinished        = errors.New("game finished")
	ErrInvalidOption   = errors.New("option out of range")
)

// Settings are the setup filters a session was created with.
type Settings struct {
	Kind          catalog.Kind `json:"kind"`
	Mode          Mode         `json:"mode"`
	Categories    []string     `json:"categories,omitempty"`
	Subcategories []string     `json:"subcategories,omitempty"`
	Groups        []string     `json:"groups,omitempty"`
	Rounds        int          `json:"rounds,omitempty"`
	AutoAdvance   bool         `json:"autoAdvance,omitempty"`
}

// Session walks a player through questions drawn from one pool.
type Session struct {
	ID       string
	Settings Settings
	Score
	CurrentIndex   int
	SelectedOption *int
	State          State
	Question       Question
	// Seq increases every time a new question is served.
	Seq int

	strategy Strategy
	pool     []Pair
	order    []int
	rounds   int
	rng      *rand.Rand
}

// NewSession serves the first question. Rounds > 0 makes the session finite:
// it visits a shuffled order of the askable pairs of the pool and stops after
// that many questions, capped at the number of askable pairs.
func NewSession(id string, settings Settings, s Strategy, pool []Pair, rng *rand.Rand) (*Session, error) {
	sess := &Session{
		ID:       id,
		Settings: settings,
		strategy: s,
		pool:     pool,
		rng:      rng,
	}
	if settings.Rounds > 0 {
		for _, i := range rng.Perm(len(pool)) {
			if Askable(s, pool[i], pool) {
				sess.order = append(sess.order, i)
			}
		}
		if len(sess.order) == 0 {
			return nil, ErrInsufficientData
		}
		sess.rounds = min(settings.Rounds, len(sess.order))
	}
	if err := sess.serve(); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Session) Finite() bool { return s.rounds > 0 }

func (s *Session) Rounds() int { return s.rounds }

func (s *Session) PoolSize() int { return len(s.pool) }

func (s *Session) serve() error {
	var index *int
	if s.Finite() {
		i := s.order[s.CurrentIndex]
		index = &i
	}
	q, err := GenerateQuestion(s.pool, s.strategy, s.rng, index)
	if err != nil {
		return err
	}
	s.Question = q
	s.SelectedOption = nil
	s.State = StateAwaitingAnswer
	s.Seq++
	return nil
}

// Choose answers the current question. It fires once per question.
func (s *Session) Choose(option int) (bool, error) {
	switch s.State {
	case StateFinished:
		return false, ErrFinished
	case StateAnswerRevealed:
		return false, ErrAlreadyAnswered
	}
	if option < 0 || option >= len(s.Question.Options) {
		return false, ErrInvalidOption
	}
	s.Score = ApplyAnswer(s.Score, option, s.Question.AnswerIndex)
	s.SelectedOption = &option
	s.State = StateAnswerRevealed
	return option == s.Question.AnswerIndex, nil
}

// Next moves past a revealed answer to a new question, or to finished when
// a finite session has run out.
func (s *Session) Next() error {
	switch s.State {
	case StateFinished:
		return ErrFinished
	case StateAwaitingAnswer:
		return ErrNotAnswered
	}
	if s.Finite() && s.CurrentIndex+1 >= s.rounds {
		s.State = StateFinished
		return nil
	}
	s.CurrentIndex++
	return s.serve()
}
