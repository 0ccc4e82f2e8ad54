package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"plangen/config"
	"plangen/models"
	"plangen/models/roadmap"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REMINDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ReminderScheduler sweeps the calendar for scheduled steps whose date has
// passed and emails the learner once per event.
type ReminderScheduler struct {
	db    *gorm.DB
	email *EmailService
	cfg   *config.Config
	cron  *cron.Cron
}

func NewReminderScheduler(db *gorm.DB, email *EmailService, cfg *config.Config) *ReminderScheduler {
	return &ReminderScheduler{db: db, email: email, cfg: cfg, cron: cron.New()}
}

// Start registers the sweep on the configured cron spec and runs it once
// immediately to catch anything missed while the process was down.
func (s *ReminderScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.ReminderSchedule, s.Sweep); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %v", s.cfg.ReminderSchedule, err)
	}
	s.cron.Start()
	logScheduler("Started with schedule " + s.cfg.ReminderSchedule)

	go s.Sweep()
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.cron.Stop()
	logScheduler("Stopped")
}

// Sweep emails reminders for overdue events. A step already marked completed
// or skipped no longer needs one, its event is just marked off.
func (s *ReminderScheduler) Sweep() {
	now := time.Now()

	var events []models.CalendarEvent
	if err := s.db.Where("date <= ? AND reminded = false AND is_deleted = false", now).
		Find(&events).Error; err != nil {
		logScheduler("Error fetching due events: " + err.Error())
		return
	}

	for _, event := range events {
		var progress roadmap.StepProgress
		err := s.db.Where("roadmap_id = ? AND profile_id = ? AND dashboard_id = ?",
			event.RoadmapID, event.ProfileID, event.DashboardID).
			First(&progress).Error
		stillOpen := err != nil || (progress.Status != "completed" && progress.Status != "skipped")

		if stillOpen {
			var profile models.Profile
			if err := s.db.First(&profile, event.ProfileID).Error; err != nil {
				logScheduler(fmt.Sprintf("Event %d: profile %d not found", event.ID, event.ProfileID))
				continue
			}
			s.email.SendReminderEmail(profile.Email, profile.Name, event.Title, event.Date.Format("January 2, 2006"))
			logScheduler(fmt.Sprintf("Reminder sent for event %d to %s", event.ID, profile.Email))
		}

		event.Reminded = true
		if err := s.db.Save(&event).Error; err != nil {
			logScheduler(fmt.Sprintf("Event %d: failed to mark reminded: %v", event.ID, err))
		}
	}
}
