package cron

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/models"
	"github.com/medbook/medbook-server/utils"
)

// StartReminderJob starts the scheduler that mails patients about booked
// appointments starting within the next hour. It only sends mail; it never
// touches appointment status.
func StartReminderJob(gdb *gorm.DB, cfg *config.Config) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("* * * * *", func() {
		sendAppointmentReminders(gdb, cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	c.Start()
	log.Println("Cron job scheduler started for appointment reminders")
	return c, nil
}

// sendAppointmentReminders checks for appointments and sends reminders
func sendAppointmentReminders(gdb *gorm.DB, cfg *config.Config) {
	if !cfg.SMTP.Configured() {
		return
	}

	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	// The stored date carries the calendar day; the slot label carries the
	// time. Fetch today's and tomorrow's booked rows and filter by the
	// combined instant, since the window can cross midnight.
	dayStart, _ := utils.DayBounds(now)
	_, dayEnd := utils.DayBounds(now.Add(24 * time.Hour))

	var appointments []models.Appointment
	err := gdb.Preload("Patient").Preload("Doctor").
		Where("status = ? AND date BETWEEN ? AND ?", models.StatusBooked, dayStart, dayEnd).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		startsAt, err := utils.SlotInstant(appointment.Date, appointment.TimeSlot)
		if err != nil {
			log.Printf("Skipping reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		if startsAt.Before(startWindow) || !startsAt.Before(endWindow) {
			continue
		}

		if err := sendReminderEmail(cfg, &appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(cfg *config.Config, appointment *models.Appointment) error {
	subject := fmt.Sprintf("Reminder: Upcoming Appointment with %s", appointment.Doctor.Name)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to cancel, do so as soon as possible.</p>
		<p>Best regards,</p>
		<p>MedBook</p>
	`, appointment.Patient.Name, appointment.Doctor.Name, appointment.Doctor.Specialization,
		appointment.Date.Format("2006-01-02"), appointment.TimeSlot)

	return utils.SendEmail(cfg.SMTP, appointment.Patient.Email, subject, body)
}
