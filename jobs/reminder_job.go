package jobs

import (
	"log"
	"time"

	"github.com/gameplannr/backend/database"
	"github.com/gameplannr/backend/models"
	"github.com/gameplannr/backend/notifications"
)

// SendSessionReminders emails both parties the day before a paid session.
func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	tomorrow := time.Now().Add(24 * time.Hour).Format("2006-01-02")

	var upcoming []models.Session
	err := database.DB.
		Preload("Parent").
		Preload("Mentor").
		Where("scheduled_date = ? AND status IN ?", tomorrow, []models.SessionStatus{models.SessionPaid, models.SessionConfirmed}).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error loading upcoming sessions: %v", err)
		return
	}
	if len(upcoming) == 0 {
		log.Println("No sessions to remind about.")
		return
	}

	for _, session := range upcoming {
		go notifications.SendSessionReminderEmail(session.Parent.Email, session.ScheduledDate, session.ScheduledTime, session.Location)
		go notifications.SendSessionReminderEmail(session.Mentor.Email, session.ScheduledDate, session.ScheduledTime, session.Location)
	}

	log.Printf("Queued reminders for %d session(s).", len(upcoming))
}
