package account_repo

import (
	"context"
	"errors"
	"fmt"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
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

// Money columns are NUMERIC. They travel as text so no precision is lost
// between Postgres and decimal.Decimal.
var selectColumns = []string{
	colUserID,
	colBalance + "::text",
	colLifetimeWagered + "::text",
	colLifetimeWon + "::text",
	colCreatedAt,
	colUpdatedAt,
}

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewAccountRepository(dbc *pgxpool.Pool) repository.AccountRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// RunMigrations creates the accounts table if it does not exist yet.
func RunMigrations(ctx context.Context, dbc *pgxpool.Pool) error {
	_, err := dbc.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			user_id BIGINT PRIMARY KEY,
			balance NUMERIC(20, 2) NOT NULL CHECK (balance >= 0),
			lifetime_wagered NUMERIC(20, 2) NOT NULL DEFAULT 0,
			lifetime_won NUMERIC(20, 2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_accounts_lifetime_wagered ON accounts(lifetime_wagered DESC);
	`)
	return err
}

// GetAccount - returns the ledger row of a user.
// Returns repository.ErrAccountNotFound when there is none
func (r *repo) GetAccount(ctx context.Context, userID int64) (*model.Account, error) {
	return r.get(ctx, userID, false)
}

// GetAccountForUpdate - same as GetAccount but holds a row lock until the transaction ends
func (r *repo) GetAccountForUpdate(ctx context.Context, userID int64) (*model.Account, error) {
	return r.get(ctx, userID, true)
}

func (r *repo) get(ctx context.Context, userID int64, forUpdate bool) (*model.Account, error) {
	// Build the query
	query := sq.Select(selectColumns...).
		From(table).
		Where(sq.Eq{colUserID: userID}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	row := r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...)
	acc, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %d: %w", userID, err)
	}
	return acc, nil
}

// CreateAccount - inserts a new ledger row, leaves an existing one untouched
func (r *repo) CreateAccount(ctx context.Context, acc *model.Account) error {
	// Build the query
	query := sq.Insert(table).
		Columns(colUserID, colBalance, colLifetimeWagered, colLifetimeWon).
		Values(acc.UserID, numeric(acc.Balance), numeric(acc.LifetimeWagered), numeric(acc.LifetimeWon)).
		Suffix("ON CONFLICT (" + colUserID + ") DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("create account %d: %w", acc.UserID, err)
	}
	return nil
}

// UpdateAccount - writes balance and lifetime counters
func (r *repo) UpdateAccount(ctx context.Context, acc *model.Account) error {
	// Build the query
	query := sq.Update(table).
		Set(colBalance, numeric(acc.Balance)).
		Set(colLifetimeWagered, numeric(acc.LifetimeWagered)).
		Set(colLifetimeWon, numeric(acc.LifetimeWon)).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{colUserID: acc.UserID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update account %d: %w", acc.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrAccountNotFound
	}
	return nil
}

// TopByWagered - accounts ordered by lifetime wagered, highest first
func (r *repo) TopByWagered(ctx context.Context, limit int) ([]model.Account, error) {
	// Build the query
	query := sq.Select(selectColumns...).
		From(table).
		OrderBy(colLifetimeWagered+" DESC", colUserID+" ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
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

func numeric(d decimal.Decimal) sq.Sqlizer {
	return sq.Expr("CAST(CAST(? AS TEXT) AS NUMERIC)", d.StringFixed(model.MoneyPlaces))
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var (
		acc                   model.Account
		balance, wagered, won string
	)
	err := row.Scan(&acc.UserID, &balance, &wagered, &won, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if acc.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("parse balance: %w", err)
	}
	if acc.LifetimeWagered, err = decimal.NewFromString(wagered); err != nil {
		return nil, fmt.Errorf("parse lifetime wagered: %w", err)
	}
	if acc.LifetimeWon, err = decimal.NewFromString(won); err != nil {
		return nil, fmt.Errorf("parse lifetime won: %w", err)
	}
	return &acc, nil
}
