package account_memory_repo

import (
	"context"
	"errors"
	"testing"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCreateIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAccountRepository()

	if _, err := r.GetAccount(ctx, 1); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("GetAccount err = %v, want ErrAccountNotFound", err)
	}
	if err := r.CreateAccount(ctx, &model.Account{UserID: 1, Balance: decimal.NewFromInt(5000)}); err != nil {
		t.Fatal(err)
	}
	if err := r.CreateAccount(ctx, &model.Account{UserID: 1, Balance: decimal.NewFromInt(1)}); err != nil {
		t.Fatal(err)
	}
	acc, err := r.GetAccount(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("balance = %s, want 5000", acc.Balance)
	}
}

func TestUpdateMissingAccount(t *testing.T) {
	t.Parallel()

	r := NewAccountRepository()
	err := r.UpdateAccount(context.Background(), &model.Account{UserID: 9})
	if !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("UpdateAccount err = %v, want ErrAccountNotFound", err)
	}
}

func TestTopByWagered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAccountRepository()
	for id, wagered := range map[int64]int64{1: 100, 2: 900, 3: 900, 4: 50} {
		_ = r.CreateAccount(ctx, &model.Account{UserID: id, LifetimeWagered: decimal.NewFromInt(wagered)})
	}

	top, err := r.TopByWagered(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{2, 3, 1}
	if len(top) != len(want) {
		t.Fatalf("len = %d, want %d", len(top), len(want))
	}
	for i, id := range want {
		if top[i].UserID != id {
			t.Fatalf("top[%d] = %d, want %d", i, top[i].UserID, id)
		}
	}
}
