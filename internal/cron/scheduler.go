package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tripgo/internal/models"
	"tripgo/internal/payment"
	"tripgo/internal/repository"
)

// Scheduler manages the background payment maintenance jobs.
type Scheduler struct {
	cron         *cron.Cron
	repos        *CronRepos
	orchestrator *payment.Orchestrator
	logger       *zap.Logger

	pendingTimeout time.Duration
}

// CronRepos bundles repositories needed by cron jobs.
type CronRepos struct {
	Booking *repository.BookingRepository
	Payment *repository.PaymentRepository
}

// New creates a new cron scheduler. Pending payments older than
// pendingTimeout are expired together with their bookings.
func New(repos *CronRepos, orchestrator *payment.Orchestrator, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:           cron.New(cron.WithSeconds()),
		repos:          repos,
		orchestrator:   orchestrator,
		logger:         logger,
		pendingTimeout: 15 * time.Minute,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Expire stale pending payments - every 5 minutes
	s.cron.AddFunc("0 */5 * * * *", func() {
		s.logger.Debug("Running: expire pending payments")
		s.expirePendingPayments()
	})

	// Reconcile processing transactions - every 10 minutes
	s.cron.AddFunc("0 */10 * * * *", func() {
		s.logger.Debug("Running: reconcile processing payments")
		s.reconcileProcessingPayments()
	})

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// expirePendingPayments cancels transactions that never received a
// callback within the pending timeout, and their bookings with them.
func (s *Scheduler) expirePendingPayments() {
	defer s.recoverFromPanic("expirePendingPayments")

	cutoff := time.Now().Add(-s.pendingTimeout)
	txns, err := s.repos.Payment.FindPendingOlderThan(cutoff)
	if err != nil {
		s.logger.Error("expire query failed", zap.Error(err))
		return
	}

	for _, txn := range txns {
		if err := s.repos.Payment.UpdateByTransactionID(txn.TransactionID, map[string]interface{}{
			"status": string(payment.StatusCancelled),
		}); err != nil {
			s.logger.Error("expire transaction failed",
				zap.String("transaction_id", txn.TransactionID), zap.Error(err))
			continue
		}
		if err := s.repos.Booking.UpdateStatus(txn.BookingID, models.BookingExpired); err != nil {
			s.logger.Error("expire booking failed",
				zap.Uint("booking_id", txn.BookingID), zap.Error(err))
		}
		s.logger.Info("pending payment expired",
			zap.String("transaction_id", txn.TransactionID),
			zap.Uint("booking_id", txn.BookingID))
	}

	if len(txns) > 0 {
		s.logger.Debug("Payment expire completed", zap.Int("processed", len(txns)))
	}
}

// reconcileProcessingPayments re-queries gateways for transactions
// stuck in the processing state and applies the provider's answer.
func (s *Scheduler) reconcileProcessingPayments() {
	defer s.recoverFromPanic("reconcileProcessingPayments")

	txns, err := s.repos.Payment.FindByStatus(string(payment.StatusProcessing))
	if err != nil {
		s.logger.Error("reconcile query failed", zap.Error(err))
		return
	}

	ctx := context.Background()
	for _, txn := range txns {
		gw, ok := payment.ParseGateway(txn.Gateway)
		if !ok || !s.orchestrator.IsAvailable(gw) {
			continue
		}

		queryID := txn.TransactionID
		if gw == payment.GatewayZaloPay && txn.ProviderOrderID != "" {
			queryID = txn.ProviderOrderID
		}

		status, err := s.orchestrator.QueryPaymentStatus(ctx, queryID, gw)
		if err != nil {
			continue
		}
		if string(status.Status) == txn.Status {
			continue
		}

		if err := s.repos.Payment.UpdateByTransactionID(txn.TransactionID, map[string]interface{}{
			"status": string(status.Status),
		}); err != nil {
			s.logger.Error("reconcile update failed",
				zap.String("transaction_id", txn.TransactionID), zap.Error(err))
			continue
		}

		switch status.Status {
		case payment.StatusCompleted:
			_ = s.repos.Booking.UpdateStatus(txn.BookingID, models.BookingConfirmed)
		case payment.StatusFailed, payment.StatusCancelled:
			_ = s.repos.Booking.UpdateStatus(txn.BookingID, models.BookingCancelled)
		}

		s.logger.Info("processing payment reconciled",
			zap.String("transaction_id", txn.TransactionID),
			zap.String("gateway", txn.Gateway),
			zap.String("status", string(status.Status)))
	}
}

func (s *Scheduler) recoverFromPanic(jobName string) {
	if r := recover(); r != nil {
		s.logger.Error("Cron job panicked", zap.String("job", jobName), zap.Any("error", r))
	}
}
