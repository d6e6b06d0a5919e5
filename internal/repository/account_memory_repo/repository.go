package account_memory_repo

import (
	"context"
	"slices"
	"sync"
	"time"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"
)

// repo keeps accounts in process memory. Row locking is left to the
// ledger's per-user lock.
type repo struct {
	mtx      sync.RWMutex
	accounts map[int64]model.Account
}

func NewAccountRepository() repository.AccountRepository {
	return &repo{
		accounts: make(map[int64]model.Account),
	}
}

func (r *repo) GetAccount(_ context.Context, userID int64) (*model.Account, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	acc, ok := r.accounts[userID]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	return &acc, nil
}

func (r *repo) GetAccountForUpdate(ctx context.Context, userID int64) (*model.Account, error) {
	return r.GetAccount(ctx, userID)
}

func (r *repo) CreateAccount(_ context.Context, acc *model.Account) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.accounts[acc.UserID]; ok {
		return nil
	}
	now := time.Now().UTC()
	row := *acc
	row.CreatedAt, row.UpdatedAt = now, now
	r.accounts[acc.UserID] = row
	return nil
}

func (r *repo) UpdateAccount(_ context.Context, acc *model.Account) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	prev, ok := r.accounts[acc.UserID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	row := *acc
	row.CreatedAt = prev.CreatedAt
	row.UpdatedAt = time.Now().UTC()
	r.accounts[acc.UserID] = row
	return nil
}

func (r *repo) TopByWagered(_ context.Context, limit int) ([]model.Account, error) {
	r.mtx.RLock()
	out := make([]model.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		out = append(out, acc)
	}
	r.mtx.RUnlock()

	slices.SortFunc(out, func(a, b model.Account) int {
		if c := b.LifetimeWagered.Cmp(a.LifetimeWagered); c != 0 {
			return c
		}
		switch {
		case a.UserID < b.UserID:
			return -1
		case a.UserID > b.UserID:
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
