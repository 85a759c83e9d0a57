// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kytseng/bankbook/internal/domain/account"
	"github.com/kytseng/bankbook/pkg/metrics"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	accounts account.Repository
	logger   *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(accounts account.Repository, logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		accounts: accounts,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Balance snapshot: runs daily at 2:00 AM
	_, err := s.cron.AddFunc("0 2 * * *", s.refreshBalanceGauges)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the balance snapshot (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshBalanceGauges()
}

// refreshBalanceGauges recomputes every account balance and publishes it as
// a prometheus gauge.
func (s *Scheduler) refreshBalanceGauges() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.logger.Info("starting balance snapshot")

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Any("error", err))
		return
	}

	for _, acc := range accounts {
		balance, _ := acc.Balance.Float64()
		metrics.AccountBalance.WithLabelValues(acc.Name, acc.BankCode).Set(balance)
	}

	s.logger.Info("balance snapshot completed",
		slog.Int("accounts", len(accounts)),
	)
}
