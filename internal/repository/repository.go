package repository

import (
	"context"
	"errors"
	"time"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

var ErrAccountNotFound = errors.New("account not found")

// AccountRepository stores ledger rows. Every method joins the transaction
// carried by ctx, if any.
type AccountRepository interface {
	GetAccount(ctx context.Context, userID int64) (*model.Account, error)
	// GetAccountForUpdate reads the row and locks it until the surrounding transaction ends.
	GetAccountForUpdate(ctx context.Context, userID int64) (*model.Account, error)
	// CreateAccount inserts the row and does nothing if it already exists.
	CreateAccount(ctx context.Context, acc *model.Account) error
	UpdateAccount(ctx context.Context, acc *model.Account) error
	TopByWagered(ctx context.Context, limit int) ([]model.Account, error)
}

// SessionRegistry holds the current session of every user in memory.
// Callers must hold Lock(userID) around every other call for that user.
type SessionRegistry interface {
	Lock(userID int64) (unlock func())

	Get(userID int64) (*model.Session, bool)
	GetOrCreate(userID int64) *model.Session
	// Replace stores s as the user's current session. A previous session
	// with another id is retired.
	Replace(userID int64, s *model.Session)
	// Park drops the current session and retires its id. The last bet,
	// retired ids and remembered tokens are kept.
	Park(userID int64)
	LastBet(userID int64) decimal.Decimal
	Evict(userID int64)

	// Owner resolves the user of a current or recently retired session.
	Owner(sessionID string) (userID int64, ok bool)
	IsRetired(userID int64, sessionID string) bool

	Recall(userID int64, token string) (model.ActionResult, bool)
	Remember(userID int64, token string, res model.ActionResult)

	// IdleSince lists users whose session was last updated before cutoff.
	IdleSince(cutoff time.Time) []int64
	// ParkedSince lists users parked before cutoff.
	ParkedSince(cutoff time.Time) []int64
}
