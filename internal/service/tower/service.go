package tower

import (
	"time"
	"tower_backend/internal/config"
	"tower_backend/internal/model"
	"tower_backend/internal/repository"
	"tower_backend/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "tower_backend/internal/service/tower"

// LadderGenerator draws the safe indices of a new tower. *rng.Policy satisfies it.
type LadderGenerator interface {
	GenerateLadder(choicesPerLevel, levelCount int) ([]int, error)
}

type serv struct {
	ledger   service.LedgerService
	registry repository.SessionRegistry
	ladders  LadderGenerator
	profiles []model.DifficultyProfile
	byID     map[string]model.DifficultyProfile
	log      zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewTowerService wires the game engine. The ledger is the only component
// it asks to move money.
func NewTowerService(
	cfg config.GameConfig,
	ledger service.LedgerService,
	registry repository.SessionRegistry,
	ladders LadderGenerator,
	log zerolog.Logger,
) service.TowerService {
	profiles := cfg.Profiles()
	byID := make(map[string]model.DifficultyProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	return &serv{
		ledger:   ledger,
		registry: registry,
		ladders:  ladders,
		profiles: profiles,
		byID:     byID,
		log:      log.With().Str("component", "tower").Logger(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

func (s *serv) Profiles() []model.DifficultyProfile {
	out := make([]model.DifficultyProfile, len(s.profiles))
	for i, p := range s.profiles {
		out[i] = p.Clone()
	}
	return out
}

// newSession starts a cycle that remembers the previous stake for the bet menu.
func (s *serv) newSession(userID int64, lastBet decimal.Decimal) *model.Session {
	return model.NewSession(userID, lastBet, s.now())
}
