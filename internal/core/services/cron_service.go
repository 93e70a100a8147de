package services

import (
	"context"
	"time"

	"educycle-api/internal/adapters/persistence/repositories"
	"educycle-api/internal/config"
	"educycle-api/internal/core/domain"
	"educycle-api/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 5 * time.Minute

// CronService runs periodic maintenance jobs
type CronService struct {
	cron   *cron.Cron
	store  *repositories.Store
	ledger *LedgerService
	cfg    *config.Config
}

// NewCronService registers the configured jobs. An empty schedule disables a job.
func NewCronService(store *repositories.Store, ledger *LedgerService, cfg *config.Config) (*CronService, error) {
	s := &CronService{
		cron:   cron.New(),
		store:  store,
		ledger: ledger,
		cfg:    cfg,
	}

	if spec := cfg.Cron.TokenCleanupSpec; spec != "" {
		if _, err := s.cron.AddFunc(spec, s.CleanupTokens); err != nil {
			return nil, err
		}
	}
	if spec := cfg.Cron.ReconcileSpec; spec != "" && cfg.Marketplace.RaisedMode == domain.RaisedModeLedger {
		if _, err := s.cron.AddFunc(spec, s.ReconcileRaised); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Start launches the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	logger.L().Info("cron service started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logger.L().Info("cron service stopped")
}

// CleanupTokens deletes expired and revoked refresh tokens
func (s *CronService) CleanupTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.store.RefreshTokens.DeleteExpired(ctx)
	if err != nil {
		logger.L().Error("refresh token cleanup failed", zap.Error(err))
		return
	}
	logger.L().Info("refresh tokens cleaned up", zap.Int64("deleted", n))
}

// ReconcileRaised recomputes activity totals from the ledger
func (s *CronService) ReconcileRaised() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.ledger.Reconcile(ctx)
	if err != nil {
		logger.L().Error("raised reconciliation failed", zap.Error(err))
		return
	}
	logger.L().Info("raised totals reconciled", zap.Int("activities", n))
}
