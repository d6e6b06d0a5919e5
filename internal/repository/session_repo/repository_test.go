package session_repo

import (
	"fmt"
	"sync"
	"testing"
	"time"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"

	"github.com/shopspring/decimal"
)

var _ repository.SessionRegistry = (*Registry)(nil)

func TestGetOrCreateIsStable(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	if _, ok := r.Get(1); ok {
		t.Fatal("Get on empty registry returned a session")
	}
	a := r.GetOrCreate(1)
	b := r.GetOrCreate(1)
	if a != b {
		t.Fatal("GetOrCreate created a second session")
	}
	if a.Status != model.StatusAwaitingBet {
		t.Fatalf("status = %s, want %s", a.Status, model.StatusAwaitingBet)
	}
	if owner, ok := r.Owner(a.ID); !ok || owner != 1 {
		t.Fatalf("Owner = %d,%v, want 1,true", owner, ok)
	}
}

func TestReplaceRetiresPreviousSession(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	first := r.GetOrCreate(1)
	next := model.NewSession(1, decimal.NewFromInt(10), time.Now())
	r.Replace(1, next)

	got, _ := r.Get(1)
	if got.ID != next.ID {
		t.Fatalf("current = %s, want %s", got.ID, next.ID)
	}
	if !r.IsRetired(1, first.ID) {
		t.Fatal("previous session should be retired")
	}
	if owner, ok := r.Owner(first.ID); !ok || owner != 1 {
		t.Fatal("retired session should still resolve to its owner")
	}

	// Committing a new state of the same session must not retire it.
	updated := next.Clone()
	updated.Status = model.StatusCancelled
	r.Replace(1, updated)
	if r.IsRetired(1, next.ID) {
		t.Fatal("same id replace retired the current session")
	}
}

func TestRetiredSessionsAreBounded(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	first := r.GetOrCreate(1)
	for i := 0; i < maxRetiredSessions+1; i++ {
		r.Replace(1, model.NewSession(1, decimal.Zero, time.Now()))
	}
	if r.IsRetired(1, first.ID) {
		t.Fatal("oldest retired id should have been dropped")
	}
	if _, ok := r.Owner(first.ID); ok {
		t.Fatal("dropped id should no longer resolve")
	}
}

func TestRememberKeepsFirstResultAndIsBounded(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	r.Remember(1, "tok", model.ActionResult{Status: model.StatusAwaitingDifficulty})
	r.Remember(1, "tok", model.ActionResult{Status: model.StatusLost})

	got, ok := r.Recall(1, "tok")
	if !ok || got.Status != model.StatusAwaitingDifficulty {
		t.Fatalf("Recall = %v,%v, want first result", got.Status, ok)
	}
	if _, ok := r.Recall(2, "tok"); ok {
		t.Fatal("tokens must be scoped per user")
	}

	for i := 0; i < maxRememberedTokens; i++ {
		r.Remember(1, fmt.Sprintf("t%d", i), model.ActionResult{})
	}
	if _, ok := r.Recall(1, "tok"); ok {
		t.Fatal("oldest token should have been evicted")
	}
	if _, ok := r.Recall(1, fmt.Sprintf("t%d", maxRememberedTokens-1)); !ok {
		t.Fatal("newest token should be remembered")
	}
}

func TestEvictAndIdleSince(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	now := time.Now()
	old := model.NewSession(1, decimal.Zero, now.Add(-time.Hour))
	fresh := model.NewSession(2, decimal.Zero, now)
	r.Replace(1, old)
	r.Replace(2, fresh)

	idle := r.IdleSince(now.Add(-time.Minute))
	if len(idle) != 1 || idle[0] != 1 {
		t.Fatalf("IdleSince = %v, want [1]", idle)
	}

	r.Evict(1)
	if _, ok := r.Get(1); ok {
		t.Fatal("evicted user still has a session")
	}
	if _, ok := r.Owner(old.ID); ok {
		t.Fatal("evicted session still resolves")
	}
}

func TestParkKeepsHistory(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	s := model.NewSession(1, decimal.NewFromInt(300), now.Add(-time.Hour))
	r.Replace(1, s)
	r.Remember(1, "tok", model.ActionResult{Balance: decimal.NewFromInt(4700)})

	r.Park(1)
	if _, ok := r.Get(1); ok {
		t.Fatal("parked user still has a session")
	}
	if !r.IsRetired(1, s.ID) {
		t.Fatal("parked session id should be retired")
	}
	if owner, ok := r.Owner(s.ID); !ok || owner != 1 {
		t.Fatalf("Owner = %d, %v, want 1, true", owner, ok)
	}
	if _, ok := r.Recall(1, "tok"); !ok {
		t.Fatal("token lost on park")
	}
	if !r.LastBet(1).Equal(decimal.NewFromInt(300)) {
		t.Fatalf("LastBet = %s, want 300", r.LastBet(1))
	}
	if idle := r.IdleSince(now.Add(time.Hour)); len(idle) != 0 {
		t.Fatalf("IdleSince = %v, want none after park", idle)
	}

	if parked := r.ParkedSince(now); len(parked) != 0 {
		t.Fatalf("ParkedSince(now) = %v, want none", parked)
	}
	if parked := r.ParkedSince(now.Add(time.Second)); len(parked) != 1 || parked[0] != 1 {
		t.Fatalf("ParkedSince = %v, want [1]", parked)
	}

	fresh := r.GetOrCreate(1)
	if !fresh.LastBetAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("new session last bet = %s, want 300", fresh.LastBetAmount)
	}
	if parked := r.ParkedSince(now.Add(time.Second)); len(parked) != 0 {
		t.Fatalf("ParkedSince = %v, want none once a session exists", parked)
	}
}

func TestLockIsPerUser(t *testing.T) {
	t.Parallel()

	r := NewSessionRegistry()
	var wg sync.WaitGroup

	for u := int64(1); u <= 4; u++ {
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				unlock := r.Lock(userID)
				defer unlock()

				s := r.GetOrCreate(userID).Clone()
				s.CurrentLevel++
				r.Replace(userID, s)
			}(u)
		}
	}
	wg.Wait()

	for u := int64(1); u <= 4; u++ {
		s, _ := r.Get(u)
		if s.CurrentLevel != 25 {
			t.Fatalf("user %d level = %d, want 25 (lost update)", u, s.CurrentLevel)
		}
	}
}
