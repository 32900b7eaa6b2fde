package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/gridrivals/gridrivals/internal/config"
	"github.com/gridrivals/gridrivals/internal/domain/authcode"
	"github.com/gridrivals/gridrivals/internal/domain/event"
	"github.com/gridrivals/gridrivals/internal/domain/invite"
	"github.com/gridrivals/gridrivals/internal/domain/leaderboard"
	"github.com/gridrivals/gridrivals/internal/domain/participant"
	"github.com/gridrivals/gridrivals/internal/domain/picks"
	"github.com/gridrivals/gridrivals/internal/domain/ratelimit"
	"github.com/gridrivals/gridrivals/internal/domain/roster"
	"github.com/gridrivals/gridrivals/internal/domain/schedule"
	"github.com/gridrivals/gridrivals/internal/infrastructure/account/gatekeeper"
	"github.com/gridrivals/gridrivals/internal/infrastructure/mailer"
	"github.com/gridrivals/gridrivals/internal/infrastructure/repository/memory"
	"github.com/gridrivals/gridrivals/internal/infrastructure/repository/postgres"
	"github.com/gridrivals/gridrivals/internal/interfaces/httpapi"
	"github.com/gridrivals/gridrivals/internal/platform/cache"
	"github.com/gridrivals/gridrivals/internal/platform/logging"
	"github.com/gridrivals/gridrivals/internal/platform/resilience"
	"github.com/gridrivals/gridrivals/internal/usecase"
)

type repositories struct {
	events       event.Repository
	picks        picks.Repository
	roster       roster.Repository
	schedule     schedule.Repository
	participants participant.Repository
	board        leaderboard.Repository
	rateLimits   ratelimit.Repository
	invites      invite.Repository
	authCodes    authcode.Repository
	db           *sqlx.DB
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL not set, using in-memory storage with seeded roster")
		return repositories{
			events:       memory.NewEventRepository(),
			picks:        memory.NewPicksRepository(),
			roster:       memory.NewRosterRepository(memory.SeedRoster()),
			schedule:     memory.NewScheduleRepository(),
			participants: memory.NewParticipantRepository(memory.SeedParticipants()),
			board:        memory.NewLeaderboardRepository(),
			rateLimits:   memory.NewRateLimitRepository(),
			invites:      memory.NewInviteRepository(),
			authCodes:    memory.NewAuthCodeRepository(),
		}, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}

	return repositories{
		events:       postgres.NewEventRepository(db),
		picks:        postgres.NewPicksRepository(db),
		roster:       postgres.NewRosterRepository(db),
		schedule:     postgres.NewScheduleRepository(db),
		participants: postgres.NewParticipantRepository(db),
		board:        postgres.NewLeaderboardRepository(db),
		rateLimits:   postgres.NewRateLimitRepository(db),
		invites:      postgres.NewInviteRepository(db),
		authCodes:    postgres.NewAuthCodeRepository(db),
		db:           db,
	}, nil
}

// NewHTTPServer wires the full service. The returned cleanup drains
// background rollups and closes the database; call it after the HTTP server
// has shut down so no request can trigger new work.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	limiter := usecase.NewRateLimiter(repos.rateLimits)
	rollup := usecase.NewRollupService(
		repos.events,
		repos.picks,
		repos.roster,
		repos.schedule,
		repos.participants,
		repos.board,
		logger,
		cfg.RollupMaxWorkers,
	)
	trigger := usecase.NewRollupTrigger(rollup, logger)
	repos.events.SetChangeListener(trigger)

	var mail usecase.Mailer
	if cfg.MailerEnabled {
		client, err := mailer.NewClient(mailer.ClientConfig{
			BaseURL:     cfg.MailerBaseURL,
			Token:       cfg.MailerToken,
			FromAddress: cfg.MailerFromAddress,
			Timeout:     cfg.MailerTimeout,
			Logger:      logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.MailerCircuitEnabled,
				FailureThreshold: cfg.MailerCircuitFailureCount,
				OpenTimeout:      cfg.MailerCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.MailerCircuitHalfOpenMax,
			},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("build mailer: %w", err)
		}
		mail = client
	}

	var boardCache *cache.Store
	if cfg.CacheEnabled {
		boardCache = cache.NewStore(cfg.CacheTTL)
	}

	inviteSvc := usecase.NewInviteService(repos.invites, limiter, cfg.InviteRateLimit, cfg.InviteRateWindow)
	authCodeSvc := usecase.NewAuthCodeService(repos.authCodes, limiter, mail, logger, cfg.AuthCodeRateLimit, cfg.AuthCodeRateWindow)
	adminSvc := usecase.NewAdminService(repos.participants, limiter, rollup, inviteSvc)
	resultSvc := usecase.NewResultService(repos.events, repos.schedule, repos.participants)
	picksSvc := usecase.NewPicksService(repos.picks)
	boardSvc := usecase.NewLeaderboardService(repos.board, boardCache)
	profileSvc := usecase.NewProfileService(repos.participants)

	verifier, err := gatekeeper.NewClient(nil, gatekeeper.ClientConfig{
		BaseURL:        cfg.GatekeeperBaseURL,
		IntrospectPath: cfg.GatekeeperIntrospectPath,
		Timeout:        cfg.GatekeeperTimeout,
		CacheTTL:       cfg.GatekeeperCacheTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GatekeeperCircuitEnabled,
			FailureThreshold: cfg.GatekeeperCircuitFailureCount,
			OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenMax,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build gatekeeper client: %w", err)
	}

	handler := httpapi.NewHandler(
		inviteSvc,
		authCodeSvc,
		adminSvc,
		resultSvc,
		picksSvc,
		boardSvc,
		profileSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			trigger.Drain()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			logger.Warn("rollup drain interrupted by shutdown deadline")
		}

		if repos.db != nil {
			return repos.db.Close()
		}
		return nil
	}

	return server, cleanup, nil
}
