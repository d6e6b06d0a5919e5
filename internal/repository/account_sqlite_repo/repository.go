// Package account_sqlite_repo stores accounts in an embedded SQLite file.
package account_sqlite_repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"
	"tower_backend/internal/repository/account_sqlite_repo/migrations"

	sq "github.com/Masterminds/squirrel"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const (
	table              = "accounts"
	colUserID          = "user_id"
	colBalance         = "balance"
	colLifetimeWagered = "lifetime_wagered"
	colLifetimeWon     = "lifetime_won"
	colCreatedAt       = "created_at"
	colUpdatedAt       = "updated_at"
)

var selectColumns = []string{colUserID, colBalance, colLifetimeWagered, colLifetimeWon, colCreatedAt, colUpdatedAt}

// Open opens the database file and applies embedded migrations.
// A single connection is kept so that write transactions never race for the file lock.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

type repo struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &repo{
		db:     db,
		getter: trmsql.DefaultCtxGetter,
	}
}

func (r *repo) GetAccount(ctx context.Context, userID int64) (*model.Account, error) {
	// Build the query
	query := sq.Select(selectColumns...).
		From(table).
		Where(sq.Eq{colUserID: userID}).
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, sqlStr, args...)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %d: %w", userID, err)
	}
	return acc, nil
}

// GetAccountForUpdate needs no row lock: the store has a single connection,
// so an open transaction already excludes every other writer.
func (r *repo) GetAccountForUpdate(ctx context.Context, userID int64) (*model.Account, error) {
	return r.GetAccount(ctx, userID)
}

func (r *repo) CreateAccount(ctx context.Context, acc *model.Account) error {
	now := time.Now().UTC().UnixMilli()
	// Build the query
	query := sq.Insert(table).
		Columns(colUserID, colBalance, colLifetimeWagered, colLifetimeWon, colCreatedAt, colUpdatedAt).
		Values(acc.UserID, money(acc.Balance), money(acc.LifetimeWagered), money(acc.LifetimeWon), now, now).
		Suffix("ON CONFLICT (" + colUserID + ") DO NOTHING").
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("create account %d: %w", acc.UserID, err)
	}
	return nil
}

func (r *repo) UpdateAccount(ctx context.Context, acc *model.Account) error {
	// Build the query
	query := sq.Update(table).
		Set(colBalance, money(acc.Balance)).
		Set(colLifetimeWagered, money(acc.LifetimeWagered)).
		Set(colLifetimeWon, money(acc.LifetimeWon)).
		Set(colUpdatedAt, time.Now().UTC().UnixMilli()).
		Where(sq.Eq{colUserID: acc.UserID}).
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update account %d: %w", acc.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrAccountNotFound
	}
	return nil
}

func (r *repo) TopByWagered(ctx context.Context, limit int) ([]model.Account, error) {
	// Build the query
	query := sq.Select(selectColumns...).
		From(table).
		OrderBy("CAST("+colLifetimeWagered+" AS REAL) DESC", colUserID+" ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Question)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("top accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *acc)
	}
	return out, rows.Err()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(model.MoneyPlaces)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*model.Account, error) {
	var (
		acc                   model.Account
		balance, wagered, won string
		createdAt, updatedAt  int64
	)
	if err := row.Scan(&acc.UserID, &balance, &wagered, &won, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if acc.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	if acc.LifetimeWagered, err = decimal.NewFromString(wagered); err != nil {
		return nil, fmt.Errorf("parse lifetime wagered: %w", err)
	}
	if acc.LifetimeWon, err = decimal.NewFromString(won); err != nil {
		return nil, fmt.Errorf("parse lifetime won: %w", err)
	}
	acc.CreatedAt = time.UnixMilli(createdAt).UTC()
	acc.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &acc, nil
}
