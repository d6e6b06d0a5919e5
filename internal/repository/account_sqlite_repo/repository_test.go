package account_sqlite_repo

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/shopspring/decimal"
)

func openTempDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "accounts.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenTwiceKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := NewAccountRepository(db).CreateAccount(ctx, &model.Account{UserID: 5, Balance: decimal.NewFromInt(10)}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	acc, err := NewAccountRepository(db).GetAccount(ctx, 5)
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance = %s, want 10", acc.Balance)
	}
}

func TestCreateGetUpdateRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAccountRepository(openTempDB(t))

	if _, err := r.GetAccount(ctx, 1); !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("GetAccount err = %v, want ErrAccountNotFound", err)
	}

	start := decimal.RequireFromString("5000.00")
	if err := r.CreateAccount(ctx, &model.Account{UserID: 1, Balance: start}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := r.CreateAccount(ctx, &model.Account{UserID: 1, Balance: decimal.Zero}); err != nil {
		t.Fatalf("second create: %v", err)
	}

	acc, err := r.GetAccountForUpdate(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !acc.Balance.Equal(start) {
		t.Fatalf("balance = %s, want %s", acc.Balance, start)
	}

	acc.Balance = decimal.RequireFromString("3750.25")
	acc.LifetimeWagered = decimal.RequireFromString("1250.75")
	acc.LifetimeWon = decimal.RequireFromString("-1250.75")
	if err := r.UpdateAccount(ctx, acc); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := r.GetAccount(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Balance.Equal(acc.Balance) || !got.LifetimeWagered.Equal(acc.LifetimeWagered) || !got.LifetimeWon.Equal(acc.LifetimeWon) {
		t.Fatalf("got %+v, want %+v", got, acc)
	}
}

func TestUpdateMissingAccount(t *testing.T) {
	t.Parallel()

	r := NewAccountRepository(openTempDB(t))
	err := r.UpdateAccount(context.Background(), &model.Account{UserID: 42})
	if !errors.Is(err, repository.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestTopByWageredOrdersNumerically(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewAccountRepository(openTempDB(t))
	// "900" sorts after "1000" as text; the query must compare numbers.
	for id, w := range map[int64]string{1: "900", 2: "1000", 3: "15.5"} {
		if err := r.CreateAccount(ctx, &model.Account{UserID: id, LifetimeWagered: decimal.RequireFromString(w)}); err != nil {
			t.Fatal(err)
		}
	}

	top, err := r.TopByWagered(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].UserID != 2 || top[1].UserID != 1 {
		t.Fatalf("top = %+v, want users 2 then 1", top)
	}
}

func TestTransactionRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTempDB(t)
	r := NewAccountRepository(db)
	trm, err := manager.New(trmsql.NewDefaultFactory(db))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.CreateAccount(ctx, &model.Account{UserID: 1, Balance: decimal.NewFromInt(100)}); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err = trm.Do(ctx, func(txCtx context.Context) error {
		acc, err := r.GetAccountForUpdate(txCtx, 1)
		if err != nil {
			return err
		}
		acc.Balance = decimal.Zero
		if err := r.UpdateAccount(txCtx, acc); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Do err = %v, want boom", err)
	}

	acc, err := r.GetAccount(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance = %s after rollback, want 100", acc.Balance)
	}
}
