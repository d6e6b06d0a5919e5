package session_repo

import (
	"slices"
	"sync"
	"time"
	"tower_backend/internal/model"
	"tower_backend/pkg/keylock"

	"github.com/shopspring/decimal"
)

const (
	// maxRememberedTokens bounds idempotency replay memory per user.
	maxRememberedTokens = 64
	// maxRetiredSessions is how many finished session ids a user keeps resolvable.
	maxRetiredSessions = 16
)

type userState struct {
	session *model.Session
	// lastBet and parkedAt survive Park so a returning player keeps the bet menu.
	lastBet    decimal.Decimal
	parkedAt   time.Time
	retired    []string
	tokens     map[string]model.ActionResult
	tokenOrder []string
}

// Registry keeps sessions in memory. Stored sessions are never mutated,
// so the registry mutex only guards the maps.
type Registry struct {
	locks *keylock.Locker[int64]

	mtx    sync.RWMutex
	users  map[int64]*userState
	owners map[string]int64

	now func() time.Time
}

func NewSessionRegistry() *Registry {
	return &Registry{
		locks:  keylock.New[int64](),
		users:  make(map[int64]*userState),
		owners: make(map[string]int64),
		now:    time.Now,
	}
}

// Lock serializes all transitions of one user. Other users are not blocked.
func (r *Registry) Lock(userID int64) func() {
	return r.locks.Lock(userID)
}

func (r *Registry) Get(userID int64) (*model.Session, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.users[userID]
	if !ok || st.session == nil {
		return nil, false
	}
	return st.session, true
}

// GetOrCreate returns the current session or stores a fresh AwaitingBet one.
func (r *Registry) GetOrCreate(userID int64) *model.Session {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st := r.stateLocked(userID)
	if st.session == nil {
		s := model.NewSession(userID, st.lastBet, r.now())
		st.session = s
		r.owners[s.ID] = userID
	}
	return st.session
}

func (r *Registry) Replace(userID int64, s *model.Session) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st := r.stateLocked(userID)
	if st.session != nil && st.session.ID != s.ID {
		r.retireLocked(st, st.session.ID)
	}
	st.session = s
	st.parkedAt = time.Time{}
	r.owners[s.ID] = userID
}

// Park drops the current session but keeps its last bet, the retired ids
// and the remembered tokens. The parked session id becomes retired.
func (r *Registry) Park(userID int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st, ok := r.users[userID]
	if !ok || st.session == nil {
		return
	}
	st.lastBet = st.session.LastBetAmount
	r.retireLocked(st, st.session.ID)
	st.session = nil
	st.parkedAt = r.now()
}

// LastBet returns the stake remembered for a user without a current session.
func (r *Registry) LastBet(userID int64) decimal.Decimal {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.users[userID]
	if !ok {
		return decimal.Zero
	}
	if st.session != nil {
		return st.session.LastBetAmount
	}
	return st.lastBet
}

// ParkedSince lists users parked before cutoff.
func (r *Registry) ParkedSince(cutoff time.Time) []int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var ids []int64
	for userID, st := range r.users {
		if st.session == nil && !st.parkedAt.IsZero() && st.parkedAt.Before(cutoff) {
			ids = append(ids, userID)
		}
	}
	slices.Sort(ids)
	return ids
}

// Evict forgets everything about the user, including retired ids and tokens.
func (r *Registry) Evict(userID int64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st, ok := r.users[userID]
	if !ok {
		return
	}
	if st.session != nil {
		delete(r.owners, st.session.ID)
	}
	for _, id := range st.retired {
		delete(r.owners, id)
	}
	delete(r.users, userID)
}

func (r *Registry) Owner(sessionID string) (int64, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	userID, ok := r.owners[sessionID]
	return userID, ok
}

func (r *Registry) IsRetired(userID int64, sessionID string) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.users[userID]
	if !ok {
		return false
	}
	return slices.Contains(st.retired, sessionID)
}

func (r *Registry) Recall(userID int64, token string) (model.ActionResult, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	st, ok := r.users[userID]
	if !ok || st.tokens == nil {
		return model.ActionResult{}, false
	}
	res, ok := st.tokens[token]
	return res, ok
}

// Remember stores the first result for a token; later calls are ignored.
func (r *Registry) Remember(userID int64, token string, res model.ActionResult) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	st := r.stateLocked(userID)
	if st.tokens == nil {
		st.tokens = make(map[string]model.ActionResult)
	}
	if _, ok := st.tokens[token]; ok {
		return
	}
	st.tokens[token] = res
	st.tokenOrder = append(st.tokenOrder, token)
	if len(st.tokenOrder) > maxRememberedTokens {
		oldest := st.tokenOrder[0]
		st.tokenOrder = st.tokenOrder[1:]
		delete(st.tokens, oldest)
	}
}

func (r *Registry) IdleSince(cutoff time.Time) []int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var ids []int64
	for userID, st := range r.users {
		if st.session != nil && st.session.UpdatedAt.Before(cutoff) {
			ids = append(ids, userID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (r *Registry) stateLocked(userID int64) *userState {
	st, ok := r.users[userID]
	if !ok {
		st = &userState{}
		r.users[userID] = st
	}
	return st
}

func (r *Registry) retireLocked(st *userState, sessionID string) {
	st.retired = append(st.retired, sessionID)
	if len(st.retired) > maxRetiredSessions {
		delete(r.owners, st.retired[0])
		st.retired = st.retired[1:]
	}
}
