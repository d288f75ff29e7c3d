package services

import (
	"context"

	"subtrack/internal/config"
	"subtrack/pkg/logging"

	"github.com/robfig/cron/v3"
)

// StartReminderScheduler runs the renewal reminder digest on the configured
// cron schedule. Returns nil when reminders are not configured.
func StartReminderScheduler() *cron.Cron {
	cfg := config.AppConfig
	if cfg.ReminderEmail == "" || cfg.BrevoAPIKey == "" {
		logging.Infof("Renewal reminders disabled (REMINDER_EMAIL or BREVO_API_KEY not set)")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.ReminderCron, func() {
		if err := NewReminderService().SendRenewalDigest(context.Background()); err != nil {
			logging.Errorf("Renewal reminder failed: %v", err)
		}
	})
	if err != nil {
		logging.Errorf("Invalid reminder schedule %q: %v", cfg.ReminderCron, err)
		return nil
	}

	c.Start()
	logging.Infof("Renewal reminder scheduled (%s)", cfg.ReminderCron)
	return c
}
