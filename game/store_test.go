package game

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"
)

func newTestStore(delay time.Duration) *Store {
	st := NewStore(delay, nil)
	var seed uint64
	st.NewRand = func() *rand.Rand {
		seed++
		return NewSeededRand(seed)
	}
	return st
}

func TestStoreAutoAdvance(t *testing.T) {
	st := newTestStore(10 * time.Millisecond)
	advanced := make(chan string, 1)
	st.OnAdvance = func(id string) { advanced <- id }

	s, _ := StrategyFor(ModeKeyActions)
	v, err := st.Create(Settings{Mode: ModeKeyActions, AutoAdvance: true}, s, s.BuildPool(actionsCatalog()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	firstQuestion := v.Question.ID

	v, err = st.Answer(v.ID, 0)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if v.State != StateAnswerRevealed || v.Question.AnswerIndex == nil {
		t.Fatalf("expected revealed answer, got %+v", v)
	}

	select {
	case id := <-advanced:
		if id != v.ID {
			t.Fatalf("advanced %q, want %q", id, v.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("auto advance did not fire")
	}

	v, err = st.Get(v.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v.State != StateAwaitingAnswer || v.Question.ID == firstQuestion {
		t.Fatalf("expected a fresh question, got %+v", v)
	}
	if v.Question.AnswerIndex != nil {
		t.Fatalf("answer index must be hidden before answering")
	}
}

func TestStoreManualNextCancelsAutoAdvance(t *testing.T) {
	st := newTestStore(30 * time.Millisecond)
	advanced := make(chan string, 1)
	st.OnAdvance = func(id string) { advanced <- id }

	s, _ := StrategyFor(ModeKeyActions)
	v, err := st.Create(Settings{Mode: ModeKeyActions, AutoAdvance: true}, s, s.BuildPool(actionsCatalog()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := st.Answer(v.ID, 1); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	v, err = st.Next(v.ID)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	second := v.Question.ID

	select {
	case <-advanced:
		t.Fatalf("auto advance fired after manual next")
	case <-time.After(100 * time.Millisecond):
	}

	v, _ = st.Get(v.ID)
	if v.Question.ID != second || v.State != StateAwaitingAnswer {
		t.Fatalf("stale timer moved the session on: %+v", v)
	}
}

func TestStoreRejectsSecondAnswer(t *testing.T) {
	st := newTestStore(0)
	s, _ := StrategyFor(ModeKeyActions)
	v, err := st.Create(Settings{Mode: ModeKeyActions}, s, s.BuildPool(actionsCatalog()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := st.Answer(v.ID, 0); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	v, err = st.Answer(v.ID, 1)
	if !errors.Is(err, ErrAlreadyAnswered) {
		t.Fatalf("expected ErrAlreadyAnswered, got %v", err)
	}
	if v.TotalAnswered != 1 {
		t.Fatalf("expected one counted answer, got %d", v.TotalAnswered)
	}
}

func TestStoreDelete(t *testing.T) {
	st := newTestStore(0)
	s, _ := StrategyFor(ModeKeyActions)
	v, err := st.Create(Settings{Mode: ModeKeyActions}, s, s.BuildPool(actionsCatalog()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := st.Delete(v.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := st.Get(v.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expected empty store")
	}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestStoreIdleSessionExpires(t *testing.T) {
	st := newTestStore(0)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	st.Now = clock.Now
	st.TTL = 10 * time.Minute

	s, _ := StrategyFor(ModeKeyActions)
	idle, err := st.Create(Settings{Mode: ModeKeyActions}, s, s.BuildPool(actionsCatalog()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	active, err := st.Create(Settings{Mode: ModeKeyActions}, s, s.BuildPool(actionsCatalog()))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	clock.Advance(6 * time.Minute)
	if _, err := st.Get(active.ID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	clock.Advance(6 * time.Minute)

	if _, err := st.Answer(idle.ID, 0); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected idle session to be gone, got %v", err)
	}
	if _, err := st.Get(active.ID); err != nil {
		t.Fatalf("recently used session should survive, got %v", err)
	}

	clock.Advance(11 * time.Minute)
	if n := st.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if st.Len() != 0 {
		t.Fatalf("expected an empty store, got %d", st.Len())
	}
}

func TestStoreMaxSessionsEvictsIdlest(t *testing.T) {
	st := newTestStore(0)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	st.Now = clock.Now
	st.MaxSessions = 2

	s, _ := StrategyFor(ModeKeyActions)
	pool := s.BuildPool(actionsCatalog())
	var ids []string
	for i := 0; i < 2; i++ {
		v, err := st.Create(Settings{Mode: ModeKeyActions}, s, pool)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, v.ID)
		clock.Advance(time.Second)
	}
	// Touch the first one so the second is the idlest.
	if _, err := st.Get(ids[0]); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	clock.Advance(time.Second)

	third, err := st.Create(Settings{Mode: ModeKeyActions}, s, pool)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if st.Len() != 2 {
		t.Fatalf("expected the limit to hold, got %d sessions", st.Len())
	}
	if _, err := st.Get(ids[1]); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected the idlest session to be evicted, got %v", err)
	}
	for _, id := range []string{ids[0], third.ID} {
		if _, err := st.Get(id); err != nil {
			t.Fatalf("Get(%s) error = %v", id, err)
		}
	}
}
