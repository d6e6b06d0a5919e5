package ledger

import (
	"context"
	"errors"
	"fmt"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"
	"tower_backend/internal/service"
	"tower_backend/pkg/keylock"

	"github.com/shopspring/decimal"
)

// TxManager runs fn in one transaction. trm.Manager satisfies it.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type nopTxManager struct{}

func (nopTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// NopTxManager is used with stores that have no transactions, such as the in-memory one.
func NopTxManager() TxManager {
	return nopTxManager{}
}

type serv struct {
	repo            repository.AccountRepository
	txManager       TxManager
	startingBalance decimal.Decimal
	locks           *keylock.Locker[int64]
}

// NewLedgerService creates accounts lazily with startingBalance on first touch.
func NewLedgerService(
	repo repository.AccountRepository,
	txManager TxManager,
	startingBalance decimal.Decimal,
) service.LedgerService {
	return &serv{
		repo:            repo,
		txManager:       txManager,
		startingBalance: startingBalance,
		locks:           keylock.New[int64](),
	}
}

// mutate applies fn to the user's row inside one transaction and writes it
// back. Nothing is written when fn fails.
func (s *serv) mutate(ctx context.Context, userID int64, fn func(acc *model.Account) error) (*model.Account, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	var out *model.Account
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Lock the row for the rest of the transaction
		prev, err := s.load(txCtx, userID, true)
		if err != nil {
			return err
		}

		// Apply the change to a copy and check it
		next := *prev
		if err := fn(&next); err != nil {
			return err
		}
		if next.Balance.IsNegative() {
			return errs.Newf(errs.CodeInternalInvariantViolation, "balance of user %d would become %s", userID, next.Balance)
		}
		if next.LifetimeWagered.LessThan(prev.LifetimeWagered) {
			return errs.Newf(errs.CodeInternalInvariantViolation, "lifetime wagered of user %d would decrease", userID)
		}

		// Save
		if err := s.repo.UpdateAccount(txCtx, &next); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// load reads the row, creating it with the starting balance if absent.
func (s *serv) load(ctx context.Context, userID int64, forUpdate bool) (*model.Account, error) {
	get := s.repo.GetAccount
	if forUpdate {
		get = s.repo.GetAccountForUpdate
	}

	acc, err := get(ctx, userID)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, fmt.Errorf("load account: %w", err)
	}

	err = s.repo.CreateAccount(ctx, &model.Account{
		UserID:          userID,
		Balance:         s.startingBalance,
		LifetimeWagered: decimal.Zero,
		LifetimeWon:     decimal.Zero,
	})
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	acc, err = get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load created account: %w", err)
	}
	return acc, nil
}

func validCents(d decimal.Decimal) bool {
	return model.ValidCents(d)
}

// shown formats d for error messages without expanding huge exponents.
func shown(d decimal.Decimal) string {
	if e := d.Exponent(); e < -18 || e > 18 {
		return fmt.Sprintf("%se%d", d.Coefficient(), e)
	}
	return d.String()
}
