package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"tower_backend/internal/errs"
	"tower_backend/internal/repository/account_memory_repo"
	"tower_backend/internal/repository/account_sqlite_repo"
	"tower_backend/internal/service"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/shopspring/decimal"
	"pgregory.net/rapid"
)

var startingBalance = decimal.NewFromInt(5000)

func newMemoryLedger() service.LedgerService {
	return NewLedgerService(account_memory_repo.NewAccountRepository(), NopTxManager(), startingBalance)
}

func newSQLiteLedger(t *testing.T) service.LedgerService {
	t.Helper()

	db, err := account_sqlite_repo.Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	txManager, err := manager.New(trmsql.NewDefaultFactory(db))
	if err != nil {
		t.Fatalf("tx manager: %v", err)
	}
	return NewLedgerService(account_sqlite_repo.NewAccountRepository(db), txManager, startingBalance)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedgerBackends(t *testing.T) {
	t.Parallel()

	backends := map[string]func(t *testing.T) service.LedgerService{
		"memory": func(*testing.T) service.LedgerService { return newMemoryLedger() },
		"sqlite": newSQLiteLedger,
	}
	for name, build := range backends {
		build := build
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			t.Run("lazy init", func(t *testing.T) { testLazyInit(t, build(t)) })
			t.Run("debit", func(t *testing.T) { testDebit(t, build(t)) })
			t.Run("settle", func(t *testing.T) { testSettle(t, build(t)) })
			t.Run("leaderboard", func(t *testing.T) { testLeaderboard(t, build(t)) })
		})
	}
}

func testLazyInit(t *testing.T, l service.LedgerService) {
	ctx := context.Background()
	bal, err := l.GetBalance(ctx, 1)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if !bal.Equal(startingBalance) {
		t.Fatalf("balance = %s, want %s", bal, startingBalance)
	}
	sum, err := l.AccountSummary(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.LifetimeWagered.IsZero() || !sum.LifetimeWon.IsZero() {
		t.Fatalf("summary = %+v, want zero counters", sum)
	}
}

func testDebit(t *testing.T, l service.LedgerService) {
	ctx := context.Background()

	bal, err := l.DebitForBet(ctx, 1, dec("1250"))
	if err != nil {
		t.Fatalf("DebitForBet: %v", err)
	}
	if !bal.Equal(dec("3750")) {
		t.Fatalf("balance = %s, want 3750", bal)
	}

	for _, bad := range []string{"0", "-1", "0.001"} {
		if _, err := l.DebitForBet(ctx, 1, dec(bad)); !errors.Is(err, errs.ErrInvalidAmount) {
			t.Fatalf("DebitForBet(%s) err = %v, want InvalidAmount", bad, err)
		}
	}
	for _, exp := range []int32{20000000, -20000000} {
		huge := decimal.New(1, exp)
		if _, err := l.DebitForBet(ctx, 1, huge); !errors.Is(err, errs.ErrInvalidAmount) {
			t.Fatalf("DebitForBet(1e%d) err = %v, want InvalidAmount", exp, err)
		}
		if _, err := l.Settle(ctx, 1, huge, decimal.Zero); !errors.Is(err, errs.ErrInvalidAmount) {
			t.Fatalf("Settle(1e%d) err = %v, want InvalidAmount", exp, err)
		}
		if err := l.RecordNetResult(ctx, 1, huge.Neg()); !errors.Is(err, errs.ErrInvalidAmount) {
			t.Fatalf("RecordNetResult(-1e%d) err = %v, want InvalidAmount", exp, err)
		}
	}
	if _, err := l.DebitForBet(ctx, 1, dec("3750.01")); !errors.Is(err, errs.ErrInsufficientFunds) {
		t.Fatalf("overdraft err = %v, want InsufficientFunds", err)
	}

	sum, _ := l.AccountSummary(ctx, 1)
	if !sum.Balance.Equal(dec("3750")) || !sum.LifetimeWagered.Equal(dec("1250")) {
		t.Fatalf("summary = %+v, want balance 3750 wagered 1250", sum)
	}

	// The whole balance may be staked.
	bal, err = l.DebitForBet(ctx, 1, dec("3750"))
	if err != nil {
		t.Fatal(err)
	}
	if !bal.IsZero() {
		t.Fatalf("balance = %s, want 0", bal)
	}
}

func testSettle(t *testing.T, l service.LedgerService) {
	ctx := context.Background()

	if _, err := l.DebitForBet(ctx, 1, dec("1250")); err != nil {
		t.Fatal(err)
	}
	bal, err := l.Settle(ctx, 1, dec("1900"), dec("650"))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if !bal.Equal(dec("5650")) {
		t.Fatalf("balance = %s, want 5650", bal)
	}

	if _, err := l.DebitForBet(ctx, 1, dec("100")); err != nil {
		t.Fatal(err)
	}
	if err := l.RecordNetResult(ctx, 1, dec("-100")); err != nil {
		t.Fatalf("RecordNetResult: %v", err)
	}

	if _, err := l.CreditSettlement(ctx, 1, dec("-1")); !errors.Is(err, errs.ErrInvalidAmount) {
		t.Fatalf("negative credit err = %v, want InvalidAmount", err)
	}
	if _, err := l.Settle(ctx, 1, dec("-1"), decimal.Zero); !errors.Is(err, errs.ErrInvalidAmount) {
		t.Fatalf("negative settle err = %v, want InvalidAmount", err)
	}

	sum, _ := l.AccountSummary(ctx, 1)
	if !sum.Balance.Equal(dec("5550")) {
		t.Fatalf("balance = %s, want 5550", sum.Balance)
	}
	if !sum.LifetimeWagered.Equal(dec("1350")) {
		t.Fatalf("wagered = %s, want 1350", sum.LifetimeWagered)
	}
	if !sum.LifetimeWon.Equal(dec("550")) {
		t.Fatalf("won = %s, want 550", sum.LifetimeWon)
	}
}

func testLeaderboard(t *testing.T, l service.LedgerService) {
	ctx := context.Background()
	for userID, bet := range map[int64]string{1: "10", 2: "300", 3: "20"} {
		if _, err := l.DebitForBet(ctx, userID, dec(bet)); err != nil {
			t.Fatal(err)
		}
	}

	top, err := l.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].UserID != 2 || top[0].Rank != 1 || top[1].UserID != 3 || top[1].Rank != 2 {
		t.Fatalf("leaderboard = %+v", top)
	}
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	l := newMemoryLedger()

	var (
		wg       sync.WaitGroup
		mtx      sync.Mutex
		accepted int
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.DebitForBet(ctx, 1, dec("100"))
			if err == nil {
				mtx.Lock()
				accepted++
				mtx.Unlock()
				return
			}
			if !errors.Is(err, errs.ErrInsufficientFunds) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 50 {
		t.Fatalf("accepted debits = %d, want 50", accepted)
	}
	bal, _ := l.GetBalance(ctx, 1)
	if !bal.IsZero() {
		t.Fatalf("balance = %s, want 0", bal)
	}
}

type failingTx struct{ err error }

func (f failingTx) Do(context.Context, func(context.Context) error) error { return f.err }

func TestTransactionFailureLeavesAccountUntouched(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := account_memory_repo.NewAccountRepository()
	good := NewLedgerService(repo, NopTxManager(), startingBalance)
	if _, err := good.GetBalance(ctx, 1); err != nil {
		t.Fatal(err)
	}

	down := errors.New("connection reset")
	broken := NewLedgerService(repo, failingTx{err: down}, startingBalance)
	if _, err := broken.DebitForBet(ctx, 1, dec("10")); !errors.Is(err, down) {
		t.Fatalf("err = %v, want %v", err, down)
	}

	bal, _ := good.GetBalance(ctx, 1)
	if !bal.Equal(startingBalance) {
		t.Fatalf("balance = %s, want %s", bal, startingBalance)
	}
}

// Any sequence of debits and settlements keeps the balance non-negative,
// lifetime wagered non-decreasing and balance = start - wagered + credits.
func TestLedgerArithmeticProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		l := newMemoryLedger()

		credits := decimal.Zero
		prevWagered := decimal.Zero
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			cents := rapid.Int64Range(1, 400000).Draw(t, "cents")
			amount := decimal.New(cents, -2)

			if rapid.Bool().Draw(t, "debit") {
				_, err := l.DebitForBet(ctx, 1, amount)
				if err != nil && !errors.Is(err, errs.ErrInsufficientFunds) {
					t.Fatalf("debit: %v", err)
				}
			} else {
				if _, err := l.Settle(ctx, 1, amount, decimal.Zero); err != nil {
					t.Fatalf("settle: %v", err)
				}
				credits = credits.Add(amount)
			}

			sum, err := l.AccountSummary(ctx, 1)
			if err != nil {
				t.Fatal(err)
			}
			if sum.Balance.IsNegative() {
				t.Fatalf("balance went negative: %s", sum.Balance)
			}
			if sum.LifetimeWagered.LessThan(prevWagered) {
				t.Fatalf("wagered decreased: %s -> %s", prevWagered, sum.LifetimeWagered)
			}
			prevWagered = sum.LifetimeWagered

			want := startingBalance.Sub(sum.LifetimeWagered).Add(credits)
			if !sum.Balance.Equal(want) {
				t.Fatalf("balance = %s, want %s", sum.Balance, want)
			}
		}
	})
}
