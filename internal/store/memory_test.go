package store

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/robalobadob/emoji-quiz/internal/game"
)

func newSession(t *testing.T) *game.Session {
	t.Helper()
	catalog := []game.Question{{Puzzle: "🦁👑", Answer: "The Lion King", Difficulty: game.DifficultyEasy, Category: game.CategoryHollywood}}
	s, err := game.New("Asha", game.DefaultSettings(), catalog, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("game.New returned error: %v", err)
	}
	return s
}

func TestUpdateMutatesStoredSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	if err := st.Save(ctx, s); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	err := st.Update(ctx, s.ID, func(s *game.Session) error {
		return s.RevealSolution()
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	var revealed bool
	_ = st.View(ctx, s.ID, func(s *game.Session) error {
		revealed = s.Round != nil && s.Round.SolutionRevealed
		return nil
	})
	if !revealed {
		t.Fatal("solution not revealed on the stored session")
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	noop := func(*game.Session) error { return nil }
	if err := st.View(ctx, "missing", noop); !errors.Is(err, ErrNotFound) {
		t.Fatalf("View error = %v, want %v", err, ErrNotFound)
	}
	if err := st.Update(ctx, "missing", noop); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update error = %v, want %v", err, ErrNotFound)
	}
	if err := st.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}

func TestUpdatePropagatesError(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	_ = st.Save(ctx, s)
	want := errors.New("boom")
	if err := st.Update(ctx, s.ID, func(*game.Session) error { return want }); !errors.Is(err, want) {
		t.Fatalf("Update error = %v, want %v", err, want)
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t)
	_ = st.Save(ctx, s)
	_ = st.Delete(ctx, s.ID)
	if err := st.View(ctx, s.ID, func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("View after Delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &memory{sessions: make(map[string]*entry), now: func() time.Time { return clock }}

	idle, active := newSession(t), newSession(t)
	_ = m.Save(ctx, idle)
	_ = m.Save(ctx, active)

	clock = clock.Add(90 * time.Minute)
	_ = m.Update(ctx, active.ID, func(*game.Session) error { return nil })
	clock = clock.Add(45 * time.Minute)

	if n := m.Sweep(ctx, time.Hour); n != 1 {
		t.Fatalf("Sweep = %d, want 1", n)
	}
	if err := m.View(ctx, idle.ID, func(*game.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("idle session error = %v, want %v", err, ErrNotFound)
	}
	if err := m.View(ctx, active.ID, func(*game.Session) error { return nil }); err != nil {
		t.Fatalf("active session error = %v", err)
	}
}

func TestViewKeepsSessionAlive(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := &memory{sessions: make(map[string]*entry), now: func() time.Time { return clock }}

	s := newSession(t)
	_ = m.Save(ctx, s)
	for i := 0; i < 3; i++ {
		clock = clock.Add(time.Hour)
		if err := m.View(ctx, s.ID, func(*game.Session) error { return nil }); err != nil {
			t.Fatalf("View error = %v", err)
		}
	}

	if n := m.Sweep(ctx, 2*time.Hour); n != 0 {
		t.Fatalf("Sweep = %d, want 0 for a session read an hour ago", n)
	}
}
