package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"subtrack/internal/config"
	"subtrack/internal/dashboard"
	"subtrack/internal/database"
	"subtrack/internal/models"
	"subtrack/pkg/logging"

	brevo "github.com/getbrevo/brevo-go/lib"
)

// ReminderService emails a digest of renewals due within the configured
// window.
type ReminderService struct {
	client    *brevo.APIClient
	fromEmail string
	fromName  string
	toEmail   string
	days      int
}

// NewReminderService creates a reminder service from the app configuration
func NewReminderService() *ReminderService {
	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", config.AppConfig.BrevoAPIKey)

	return &ReminderService{
		client:    brevo.NewAPIClient(cfg),
		fromEmail: config.AppConfig.BrevoFromEmail,
		fromName:  config.AppConfig.BrevoFromName,
		toEmail:   config.AppConfig.ReminderEmail,
		days:      config.AppConfig.ReminderDays,
	}
}

// SendRenewalDigest computes the renewals falling inside the reminder window
// and sends one email listing them. Nothing is sent when the window is empty.
func (s *ReminderService) SendRenewalDigest(ctx context.Context) error {
	subscriptions, err := database.ListSubscriptions()
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}

	now := time.Now()
	views := make([]models.SubscriptionView, len(subscriptions))
	for i := range subscriptions {
		views[i] = subscriptions[i].ToView(now)
	}

	cutoff := now.AddDate(0, 0, s.days)
	var due []dashboard.UpcomingRenewal
	for _, item := range dashboard.UpcomingRenewals(views, now, 0) {
		if item.RenewalDate.After(cutoff) {
			break
		}
		due = append(due, item)
	}

	if len(due) == 0 {
		logging.Infof("No renewals due within %d days, skipping reminder", s.days)
		return nil
	}

	subject := fmt.Sprintf("%d subscription renewal(s) in the next %d days", len(due), s.days)
	if err := s.sendEmail(ctx, subject, due); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}

	logging.Infof("Renewal reminder sent to %s (%d renewals)", s.toEmail, len(due))
	return nil
}

func (s *ReminderService) sendEmail(ctx context.Context, subject string, due []dashboard.UpcomingRenewal) error {
	var html strings.Builder
	var text strings.Builder

	html.WriteString("<h2>Upcoming renewals</h2><ul>")
	for _, item := range due {
		line := fmt.Sprintf("%s renews on %s at %.2f",
			item.Subscription.Name,
			item.RenewalDate.Format(models.DateLayout),
			item.Subscription.Cost)
		html.WriteString("<li>" + line + "</li>")
		text.WriteString(line + "\n")
	}
	html.WriteString("</ul>")

	email := brevo.SendSmtpEmail{
		Sender: &brevo.SendSmtpEmailSender{
			Name:  s.fromName,
			Email: s.fromEmail,
		},
		To: []brevo.SendSmtpEmailTo{
			{Email: s.toEmail},
		},
		Subject:     subject,
		HtmlContent: html.String(),
		TextContent: text.String(),
	}

	_, _, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, email)
	return err
}
