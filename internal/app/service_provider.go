package app

import (
	"context"
	"database/sql"
	"os"
	accountAPI "tower_backend/internal/api/account"
	healthAPI "tower_backend/internal/api/health"
	towerAPI "tower_backend/internal/api/tower"
	"tower_backend/internal/config"
	"tower_backend/internal/config/env"
	"tower_backend/internal/janitor"
	"tower_backend/internal/logger"
	"tower_backend/internal/middleware"
	"tower_backend/internal/repository"
	"tower_backend/internal/repository/account_memory_repo"
	"tower_backend/internal/repository/account_repo"
	"tower_backend/internal/repository/account_sqlite_repo"
	"tower_backend/internal/repository/session_repo"
	"tower_backend/internal/rng"
	"tower_backend/internal/service"
	"tower_backend/internal/service/ledger"
	"tower_backend/internal/service/tower"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type ServiceProvider struct {
	// Ambient
	logCfg       config.LogConfig
	log          *zerolog.Logger
	telemetryCfg config.TelemetryConfig

	// Storage
	storageCfg config.StorageConfig
	pgConfig   config.PGConfig
	dbClient   *pgxpool.Pool
	sqliteDB   *sql.DB
	txManager  ledger.TxManager

	// Ledger bits
	gameCfg     config.GameConfig
	accountRepo repository.AccountRepository
	ledgerServ  service.LedgerService
	accountHand *accountAPI.Handler

	// Tower bits
	registry  repository.SessionRegistry
	towerServ service.TowerService
	towerHand *towerAPI.Handler

	// Housekeeping
	janitorCfg config.JanitorConfig
	janitor    *janitor.Janitor

	// Router and HTTP config
	jwtCfg  config.JWTConfig
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		cfg, err := env.NewLogConfig()
		if err != nil {
			panic("failed to get log config: " + err.Error())
		}
		sp.logCfg = cfg
	}
	return sp.logCfg
}

func (sp *ServiceProvider) Logger() zerolog.Logger {
	if sp.log == nil {
		l, err := logger.New(sp.LogCfg().Level(), sp.LogCfg().Format(), os.Stdout)
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.log = &l
	}
	return *sp.log
}

func (sp *ServiceProvider) TelemetryCfg() config.TelemetryConfig {
	if sp.telemetryCfg == nil {
		cfg, err := env.NewTelemetryConfig()
		if err != nil {
			panic("failed to get telemetry config: " + err.Error())
		}
		sp.telemetryCfg = cfg
	}
	return sp.telemetryCfg
}

func (sp *ServiceProvider) StorageCfg() config.StorageConfig {
	if sp.storageCfg == nil {
		cfg, err := env.NewStorageConfig()
		if err != nil {
			panic("failed to get storage config: " + err.Error())
		}
		sp.storageCfg = cfg
	}
	return sp.storageCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		err = account_repo.RunMigrations(ctx, dbc)
		if err != nil {
			panic("failed to migrate db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) SQLiteDB() *sql.DB {
	if sp.sqliteDB == nil {
		db, err := account_sqlite_repo.Open(sp.StorageCfg().SQLitePath())
		if err != nil {
			panic("failed to open sqlite: " + err.Error())
		}
		sp.sqliteDB = db
	}
	return sp.sqliteDB
}

func (sp *ServiceProvider) TXManager(ctx context.Context) ledger.TxManager {
	if sp.txManager == nil {
		switch sp.StorageCfg().Driver() {
		case config.StoragePostgres:
			m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
			if err != nil {
				panic("failed to create tx manager: " + err.Error())
			}
			sp.txManager = m
		case config.StorageSQLite:
			m, err := manager.New(trmsql.NewDefaultFactory(sp.SQLiteDB()))
			if err != nil {
				panic("failed to create tx manager: " + err.Error())
			}
			sp.txManager = m
		default:
			sp.txManager = ledger.NopTxManager()
		}
	}

	return sp.txManager
}

func (sp *ServiceProvider) AccountRepo(ctx context.Context) repository.AccountRepository {
	if sp.accountRepo == nil {
		switch sp.StorageCfg().Driver() {
		case config.StoragePostgres:
			sp.accountRepo = account_repo.NewAccountRepository(sp.DBClient(ctx))
		case config.StorageSQLite:
			sp.accountRepo = account_sqlite_repo.NewAccountRepository(sp.SQLiteDB())
		default:
			sp.accountRepo = account_memory_repo.NewAccountRepository()
		}
	}
	return sp.accountRepo
}

// StorePinger is nil for the in-memory store.
func (sp *ServiceProvider) StorePinger(ctx context.Context) healthAPI.Pinger {
	switch sp.StorageCfg().Driver() {
	case config.StoragePostgres:
		return sp.DBClient(ctx).Ping
	case config.StorageSQLite:
		return sp.SQLiteDB().PingContext
	}
	return nil
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(sp.AccountRepo(ctx), sp.TXManager(ctx), sp.GameCfg().StartingBalance())
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) AccountHandler(ctx context.Context) *accountAPI.Handler {
	if sp.accountHand == nil {
		sp.accountHand = accountAPI.NewHandler(accountAPI.HandlerDeps{
			Serv: sp.LedgerService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.accountHand
}

func (sp *ServiceProvider) SessionRegistry() repository.SessionRegistry {
	if sp.registry == nil {
		sp.registry = session_repo.NewSessionRegistry()
	}
	return sp.registry
}

func (sp *ServiceProvider) TowerService(ctx context.Context) service.TowerService {
	if sp.towerServ == nil {
		src, err := rng.NewSource()
		if err != nil {
			panic("failed to seed rng: " + err.Error())
		}
		sp.towerServ = tower.NewTowerService(
			sp.GameCfg(),
			sp.LedgerService(ctx),
			sp.SessionRegistry(),
			rng.NewPolicy(src),
			sp.Logger(),
		)
	}
	return sp.towerServ
}

func (sp *ServiceProvider) TowerHandler(ctx context.Context) *towerAPI.Handler {
	if sp.towerHand == nil {
		sp.towerHand = towerAPI.NewHandler(towerAPI.HandlerDeps{
			Serv: sp.TowerService(ctx),
			Log:  sp.Logger(),
		})
	}
	return sp.towerHand
}

func (sp *ServiceProvider) JanitorCfg() config.JanitorConfig {
	if sp.janitorCfg == nil {
		cfg, err := env.NewJanitorConfig()
		if err != nil {
			panic("failed to get janitor config: " + err.Error())
		}
		sp.janitorCfg = cfg
	}
	return sp.janitorCfg
}

func (sp *ServiceProvider) Janitor(ctx context.Context) *janitor.Janitor {
	if sp.janitor == nil {
		j, err := janitor.New(sp.TowerService(ctx), sp.JanitorCfg().Schedule(), sp.JanitorCfg().IdleTTL(), sp.Logger())
		if err != nil {
			panic("failed to create janitor: " + err.Error())
		}
		sp.janitor = j
	}
	return sp.janitor
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RequestID)
		r.Use(chimw.RealIP)
		r.Use(middleware.RequestLogger(sp.Logger()))
		r.Use(chimw.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/health", healthAPI.NewHandler(sp.StorePinger(ctx)).Health)

		towerHandler := sp.TowerHandler(ctx)
		accountHandler := sp.AccountHandler(ctx)
		r.Group(func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey()))

			// Tower endpoints
			rr.Route("/tower", func(tr chi.Router) {
				tr.Post("/actions", towerHandler.Action)
				tr.Get("/session", towerHandler.Session)
				tr.Get("/profiles", towerHandler.Profiles)
			})

			// Account endpoints
			rr.Get("/account", accountHandler.Summary)
			rr.Get("/leaderboard", accountHandler.Leaderboard)
		})

		sp.router = r
	}

	return sp.router
}

// Close releases the storage handles that were opened.
func (sp *ServiceProvider) Close() {
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.sqliteDB != nil {
		_ = sp.sqliteDB.Close()
	}
}
