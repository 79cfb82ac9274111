package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"libraease/internal/adapters/persistence/repositories"
	"libraease/internal/core/domain"
)

// CronService runs the daily maintenance jobs: revoking refresh tokens
// that expired without being presented again, and flagging overdue
// loans in the audit trail. Validation never depends on these jobs;
// expired tokens are already rejected lazily.
type CronService struct {
	cron *cron.Cron
	uow  repositories.UnitOfWork
}

// NewCronService creates a new cron service
func NewCronService(uow repositories.UnitOfWork) *CronService {
	return &CronService{
		cron: cron.New(),
		uow:  uow,
	}
}

// Start schedules and starts the maintenance jobs
func (s *CronService) Start() {
	// 02:30 daily: revoke expired refresh tokens
	if _, err := s.cron.AddFunc("30 2 * * *", s.SweepExpiredTokens); err != nil {
		log.Printf("❌ Failed to schedule token sweep: %v", err)
	}

	// 03:00 daily: flag overdue loans
	if _, err := s.cron.AddFunc("0 3 * * *", s.FlagOverdueLoans); err != nil {
		log.Printf("❌ Failed to schedule overdue check: %v", err)
	}

	s.cron.Start()
	log.Println("✅ Cron service started")
}

// Stop stops the cron scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 Cron service stopped")
}

// SweepExpiredTokens revokes every expired-but-unrevoked refresh token
// and records one audit entry for the sweep. Rows are kept for forensic
// audit, never deleted.
func (s *CronService) SweepExpiredTokens() {
	ctx := context.Background()
	err := s.uow.Do(ctx, func(r repositories.Repositories) error {
		count, err := r.RefreshTokens.RevokeExpired(ctx, time.Now())
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		return recordAudit(ctx, r.AuditLogs, domain.AuditTokenSweep, domain.EntityRefreshToken, 0, nil,
			fmt.Sprintf("%d expired refresh tokens revoked", count))
	})
	if err != nil {
		log.Printf("❌ Token sweep failed: %v", err)
		return
	}
	log.Println("✅ Expired refresh token sweep completed")
}

// FlagOverdueLoans records an audit entry for every loan past its due
// date that is still open.
func (s *CronService) FlagOverdueLoans() {
	ctx := context.Background()
	err := s.uow.Do(ctx, func(r repositories.Repositories) error {
		loans, err := r.Loans.ListOverdue(ctx, time.Now())
		if err != nil {
			return err
		}
		for _, loan := range loans {
			err := recordAudit(ctx, r.AuditLogs, domain.AuditLoanOverdue, domain.EntityLoan, loan.ID, nil,
				fmt.Sprintf("loan %d for book %d overdue since %s", loan.ID, loan.BookID, loan.DueDate.Format("2006-01-02")))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Overdue loan check failed: %v", err)
		return
	}
	log.Println("✅ Overdue loan check completed")
}
