package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/andrewpaige1/tcm-study-api/logger"
)

var ErrSessionNotFound = errors.New("game session not found")

// DefaultAutoAdvance is how long an answer stays revealed before an
// auto-advancing session moves on.
const DefaultAutoAdvance = 1200 * time.Millisecond

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type storedSession struct {
	session  *Session
	timer    *time.Timer
	lastSeen time.Time
}

// Store keeps live sessions in memory. Nothing is persisted; a restart
// drops every session. Sessions idle for longer than TTL are gone, and once
// MaxSessions are live the longest idle one makes room for a new one.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*storedSession
	delay    time.Duration
	log      *logger.Logger

	TTL         time.Duration
	MaxSessions int

	// NewRand supplies each session's random source.
	NewRand func() *rand.Rand
	// Now is the store's clock.
	Now func() time.Time
	// OnAdvance, when set, is called after an auto-advance fired.
	OnAdvance func(id string)
}

func NewStore(delay time.Duration, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		sessions:    make(map[string]*storedSession),
		delay:       delay,
		log:         log,
		TTL:         DefaultSessionTTL,
		MaxSessions: DefaultMaxSessions,
		NewRand:     NewRand,
		Now:         time.Now,
	}
}

func (st *Store) Create(settings Settings, s Strategy, pool []Pair) (View, error) {
	id, err := gonanoid.New()
	if err != nil {
		return View{}, err
	}
	sess, err := NewSession(id, settings, s, pool, st.NewRand())
	if err != nil {
		return View{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	now := st.Now()
	st.sweepLocked(now)
	if st.MaxSessions > 0 {
		for len(st.sessions) >= st.MaxSessions {
			st.evictIdlestLocked()
		}
	}
	st.sessions[id] = &storedSession{session: sess, lastSeen: now}
	st.log.Debug("game session created", "session", id, "mode", settings.Mode, "pool", len(pool))
	return viewOf(sess), nil
}

func (st *Store) Get(id string) (View, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.lookupLocked(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	return viewOf(ss.session), nil
}

// Answer records the player's choice. Auto-advancing sessions schedule a
// move to the next question that is dropped if the question changes first.
func (st *Store) Answer(id string, option int) (View, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.lookupLocked(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	if _, err := ss.session.Choose(option); err != nil {
		return viewOf(ss.session), err
	}
	if ss.session.Settings.AutoAdvance && st.delay > 0 {
		seq := ss.session.Seq
		st.stopTimer(ss)
		ss.timer = time.AfterFunc(st.delay, func() { st.autoAdvance(id, seq) })
	}
	return viewOf(ss.session), nil
}

func (st *Store) Next(id string) (View, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.lookupLocked(id)
	if !ok {
		return View{}, ErrSessionNotFound
	}
	st.stopTimer(ss)
	if err := ss.session.Next(); err != nil {
		return viewOf(ss.session), err
	}
	return viewOf(ss.session), nil
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	ss, ok := st.lookupLocked(id)
	if !ok {
		return ErrSessionNotFound
	}
	st.removeLocked(id, ss)
	return nil
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops every idle session and returns how many went.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked(st.Now())
}

// Run sweeps idle sessions every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				st.log.Debug("idle game sessions dropped", "count", n)
			}
		}
	}
}

// lookupLocked returns a live session and marks it as used. An expired
// session is dropped on the spot.
func (st *Store) lookupLocked(id string) (*storedSession, bool) {
	ss, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	now := st.Now()
	if st.expired(ss, now) {
		st.removeLocked(id, ss)
		return nil, false
	}
	ss.lastSeen = now
	return ss, true
}

func (st *Store) expired(ss *storedSession, now time.Time) bool {
	return st.TTL > 0 && now.Sub(ss.lastSeen) > st.TTL
}

func (st *Store) sweepLocked(now time.Time) int {
	n := 0
	for id, ss := range st.sessions {
		if st.expired(ss, now) {
			st.removeLocked(id, ss)
			n++
		}
	}
	return n
}

func (st *Store) evictIdlestLocked() {
	var (
		oldestID string
		oldest   *storedSession
	)
	for id, ss := range st.sessions {
		if oldest == nil || ss.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, ss
		}
	}
	if oldest != nil {
		st.log.Warn("session limit reached, dropping idlest session", "session", oldestID)
		st.removeLocked(oldestID, oldest)
	}
}

func (st *Store) removeLocked(id string, ss *storedSession) {
	st.stopTimer(ss)
	delete(st.sessions, id)
}

func (st *Store) autoAdvance(id string, seq int) {
	st.mu.Lock()
	ss, ok := st.sessions[id]
	if !ok || ss.session.Seq != seq || ss.session.State != StateAnswerRevealed {
		st.mu.Unlock()
		return
	}
	ss.timer = nil
	if err := ss.session.Next(); err != nil {
		st.log.Warn("auto advance failed", "session", id, "error", err)
	}
	hook := st.OnAdvance
	st.mu.Unlock()

	if hook != nil {
		hook(id)
	}
}

func (st *Store) stopTimer(ss *storedSession) {
	if ss.timer != nil {
		ss.timer.Stop()
		ss.timer = nil
	}
}

// View is a snapshot of a session safe to hand to the transport layer. The
// answer index is only included once the answer has been revealed.
type View struct {
	ID              string        `json:"id"`
	Settings        Settings      `json:"settings"`
	State           State         `json:"state"`
	TotalAnswered   int           `json:"totalAnswered"`
	CorrectAnswered int           `json:"correctAnswered"`
	Percent         int           `json:"percent"`
	CurrentIndex    int           `json:"currentIndex"`
	Rounds          int           `json:"rounds,omitempty"`
	PoolSize        int           `json:"poolSize"`
	SelectedOption  *int          `json:"selectedOption"`
	Question        *QuestionView `json:"question,omitempty"`
}

type QuestionView struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex *int     `json:"answerIndex,omitempty"`
	Correct     *bool    `json:"correct,omitempty"`
}

func viewOf(s *Session) View {
	v := View{
		ID:              s.ID,
		Settings:        s.Settings,
		State:           s.State,
		TotalAnswered:   s.TotalAnswered,
		CorrectAnswered: s.CorrectAnswered,
		Percent:         s.Percent(),
		CurrentIndex:    s.CurrentIndex,
		Rounds:          s.Rounds(),
		PoolSize:        s.PoolSize(),
	}
	if s.SelectedOption != nil {
		sel := *s.SelectedOption
		v.SelectedOption = &sel
	}
	if s.State == StateFinished {
		return v
	}
	q := &QuestionView{ID: s.Question.ID, Prompt: s.Question.Prompt}
	for _, o := range s.Question.Options {
		q.Options = append(q.Options, o.Label)
	}
	if s.State == StateAnswerRevealed {
		ans := s.Question.AnswerIndex
		correct := s.SelectedOption != nil && *s.SelectedOption == ans
		q.AnswerIndex = &ans
		q.Correct = &correct
	}
	v.Question = q
	return v
}
