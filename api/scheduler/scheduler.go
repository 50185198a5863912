package scheduler

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kgcas/alumni-connect-api/databases"
	"github.com/kgcas/alumni-connect-api/models"
	templates "github.com/kgcas/alumni-connect-api/templates/html"
)

const defaultUnverifiedTTLDays = 7

// Scheduler handles periodic background jobs for account hygiene
type Scheduler struct {
	cron *cron.Cron
	UDB  databases.UserDatabase
}

// NewScheduler creates a new scheduler instance
func NewScheduler(uDB databases.UserDatabase) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC)),
		UDB:  uDB,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Purge accounts that never completed OTP verification, daily at 3 AM UTC
	_, err := s.cron.AddFunc("0 3 * * *", s.pruneUnverifiedAccounts)
	if err != nil {
		zap.S().Errorw("failed to register unverified prune job", "error", err)
	}

	// Remind admins about accounts awaiting approval, Mondays at 8 AM UTC
	_, err = s.cron.AddFunc("0 8 * * 1", s.remindPendingApprovals)
	if err != nil {
		zap.S().Errorw("failed to register pending approval reminder job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Account hygiene scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Account hygiene scheduler stopped")
}

// pruneUnverifiedAccounts deletes registrations whose OTP was never
// entered. The email address becomes free to register again.
func (s *Scheduler) pruneUnverifiedAccounts() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ttlDays := defaultUnverifiedTTLDays
	if v := os.Getenv("UNVERIFIED_TTL_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttlDays = n
		}
	}
	cutoff := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

	deleted, err := s.UDB.DeleteMany(ctx, bson.M{
		"isVerified": false,
		"createdAt":  bson.M{"$lt": primitive.NewDateTimeFromTime(cutoff)},
	})
	if err != nil {
		zap.S().Errorw("failed to prune unverified accounts", "error", err)
		return
	}

	zap.S().Infow("Unverified account prune complete",
		"deleted", deleted,
		"ttlDays", ttlDays,
	)
}

// remindPendingApprovals emails every admin a summary of verified
// accounts still waiting in the approval queue
func (s *Scheduler) remindPendingApprovals() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pending, err := s.UDB.CountDocuments(ctx, bson.M{
		"isVerified": true,
		"isApproved": false,
	})
	if err != nil {
		zap.S().Errorw("failed to count pending approvals", "error", err)
		return
	}
	if pending == 0 {
		zap.S().Debug("No pending approvals, skipping admin reminder")
		return
	}

	admins, err := s.UDB.Find(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		zap.S().Errorw("failed to find admins for reminder", "error", err)
		return
	}

	subject := "AlumniConnect: accounts awaiting approval"
	body := fmt.Sprintf("There are %d verified accounts waiting in the approval queue. Please review them from the admin dashboard.", pending)
	htmlContent := templates.RenderGenericEmail(subject, body)

	sent := 0
	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		if err := s.sendEmail(admin.Email, admin.Name, subject, htmlContent, body); err != nil {
			zap.S().Errorw("failed to send approval reminder", "error", err, "adminId", admin.ID.Hex())
			continue
		}
		sent++
	}

	zap.S().Infow("Pending approval reminders sent",
		"pending", pending,
		"adminsNotified", sent,
	)
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		zap.S().Warn("SENDGRID_API_KEY not set, skipping email send")
		return nil
	}

	from := mail.NewEmail("AlumniConnect", "no-reply@kgcas.com")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
