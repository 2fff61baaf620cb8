package main

import (
	"fmt"
	"io"

	"github.com/nexlayer/backend/internal/blob"
	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/identity"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/internal/utils"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg           *config.Config
	db            *gorm.DB
	store         blob.Store
	verifier      identity.Verifier
	authenticator *middleware.Authenticator
	eventQueue    services.EventQueue
	worker        *services.Worker
	retention     *cron.Cron
}

// bootstrap initializes all application dependencies: database, seed data, queue and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	if err := models.InitDB(&cfg.Database, cfg.Log.Level == "debug"); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(models.GetDB()); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if n, err := seedTeam(models.GetDB(), cfg); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed team")
	} else if n > 0 {
		logger.Info().Int("created", n).Msg("Seeded team members")
	}

	svc, err := newAppServices(cfg, models.GetDB(), services.InitEventQueue)
	if err != nil {
		logger.Fatalf("Failed to initialize services: %v", err)
	}

	// Consume queued security events when Redis is enabled
	if svc.eventQueue.IsAsync() {
		svc.worker = services.NewWorker(&cfg.Redis)
		if svc.worker != nil {
			svc.worker.SetProcessor(services.NewSecurityLogService(svc.db).Record)
			if err := svc.worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start security event worker")
				svc.worker = nil
			}
		}
	}

	if cfg.Security.LogRetentionDays > 0 {
		svc.retention, err = services.NewSecurityLogService(svc.db).StartRetentionJob(cfg.Security.LogRetentionDays)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to start security log retention job")
		}
	}

	return svc
}

type queueFactory func(*config.Config, services.EventProcessor) services.EventQueue

// newAppServices wires the request-path dependencies on an open database.
func newAppServices(cfg *config.Config, db *gorm.DB, newQueue queueFactory) (*appServices, error) {
	store, err := blob.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	verifier, err := identity.NewVerifier(cfg)
	if err != nil {
		return nil, err
	}
	// Local tokens are minted here too, so the signing secret is set for every provider.
	utils.SetJWTSecret(cfg.JWT.Secret)

	resolver := identity.NewDefaultResolver(db, &cfg.Auth)

	return &appServices{
		cfg:           cfg,
		db:            db,
		store:         store,
		verifier:      verifier,
		authenticator: middleware.NewAuthenticator(verifier, resolver),
		eventQueue:    newQueue(cfg, services.NewSecurityLogService(db).Record),
	}, nil
}

func seedTeam(db *gorm.DB, cfg *config.Config) (int, error) {
	var hash string
	if cfg.Auth.SeedPassword != "" {
		var err error
		if hash, err = utils.HashPassword(cfg.Auth.SeedPassword); err != nil {
			return 0, err
		}
	}
	return models.SeedTeam(db, cfg.Team, hash)
}

// shutdown gracefully stops all background work.
func (s *appServices) shutdown() {
	if s.retention != nil {
		<-s.retention.Stop().Done()
		logger.Info().Msg("Retention scheduler stopped")
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if c, ok := s.verifier.(io.Closer); ok {
		c.Close()
	}
	if s.eventQueue != nil {
		if err := s.eventQueue.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close event queue")
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close database")
		}
	}
}
