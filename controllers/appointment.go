package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/models"
	"github.com/medbook/medbook-server/utils"
)

// ListAppointments returns the caller's own appointments, newest date first.
// Supports ?status= and ?upcoming=true (date >= now and still booked).
func ListAppointments(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		query := gdb.Where("patient_id = ?", userID)
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if c.Query("upcoming") == "true" {
			query = query.Where("date >= ? AND status = ?", time.Now(), models.StatusBooked)
		}

		var appointments []models.Appointment
		if err := query.Preload("Doctor").Order("date DESC").Find(&appointments).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch appointments",
				Error:   err.Error(),
			})
		}
		return c.JSON(appointments)
	}
}

// AdminListAppointments returns appointments across all patients (admin
// only). Supports ?status= and ?date=YYYY-MM-DD, which matches the whole
// calendar day.
func AdminListAppointments(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := gdb.Preload("Patient").Preload("Doctor").Order("date DESC")
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if date := c.Query("date"); date != "" {
			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Invalid date, expected YYYY-MM-DD",
				})
			}
			dayStart, dayEnd := utils.DayBounds(day)
			query = query.Where("date BETWEEN ? AND ?", dayStart, dayEnd)
		}

		var appointments []models.Appointment
		if err := query.Find(&appointments).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch appointments",
				Error:   err.Error(),
			})
		}
		return c.JSON(appointments)
	}
}

// GetAppointment returns a single appointment. Only the owning patient or an
// admin may see it.
func GetAppointment(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var appointment models.Appointment
		err := gdb.Preload("Doctor").Preload("Patient").First(&appointment, c.Params("id")).Error
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
			})
		}

		userID := c.Locals("userID").(uint)
		role := c.Locals("role").(models.Role)
		if appointment.PatientID != userID && role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Access denied",
			})
		}

		return c.JSON(appointment)
	}
}

type CreateAppointmentRequest struct {
	DoctorID uint   `json:"doctor_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required"`
	Reason   string `json:"reason"`
	Symptoms string `json:"symptoms"`
}

// CreateAppointment books a slot for the calling patient. The friendly
// existence check gives a clean 409, and the partial unique index on
// (doctor_id, date, time_slot) for booked rows settles any race two
// concurrent requests might win past that check.
func CreateAppointment(gdb *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(CreateAppointmentRequest)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Doctor, date, and time slot are required",
				Error:   err.Error(),
			})
		}

		date, err := parseAppointmentDate(req.Date)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid date",
				Error:   err.Error(),
			})
		}
		if _, err := utils.ParseSlot(req.TimeSlot); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid time slot",
				Error:   err.Error(),
			})
		}

		var doctor models.Doctor
		if err := gdb.First(&doctor, req.DoctorID).Error; err != nil || !doctor.IsActive {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found or inactive",
			})
		}

		var conflict models.Appointment
		found := gdb.Where("doctor_id = ? AND date = ? AND time_slot = ? AND status = ?",
			doctor.ID, date, req.TimeSlot, models.StatusBooked).First(&conflict).RowsAffected
		if found > 0 {
			return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
				Message: "This time slot is already booked",
			})
		}

		if date.Before(time.Now()) {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Cannot book appointments in the past",
			})
		}

		appointment := models.Appointment{
			PatientID: c.Locals("userID").(uint),
			DoctorID:  doctor.ID,
			Date:      date,
			TimeSlot:  req.TimeSlot,
			Reason:    req.Reason,
			Symptoms:  req.Symptoms,
			Status:    models.StatusBooked,
		}

		if err := gdb.Create(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// a concurrent booking won the slot between check and insert
				return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
					Message: "This time slot is already booked",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create appointment",
				Error:   err.Error(),
			})
		}

		if err := gdb.Preload("Doctor").First(&appointment, appointment.ID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load appointment",
				Error:   err.Error(),
			})
		}

		patient := c.Locals("currentUser").(*models.User)
		sendBookingEmail(cfg, patient, &appointment)

		return c.Status(fiber.StatusCreated).JSON(appointment)
	}
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

// CancelAppointment marks an appointment cancelled. Only the owning patient
// or an admin may cancel; cancelled and completed are terminal.
func CancelAppointment(gdb *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var appointment models.Appointment
		if err := gdb.First(&appointment, c.Params("id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
			})
		}

		userID := c.Locals("userID").(uint)
		role := c.Locals("role").(models.Role)
		if appointment.PatientID != userID && role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "Access denied",
			})
		}

		if appointment.Status == models.StatusCancelled {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Appointment already cancelled",
			})
		}
		if appointment.Status == models.StatusCompleted {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Cannot cancel completed appointment",
			})
		}

		req := new(CancelAppointmentRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Failed to parse request body",
					Error:   err.Error(),
				})
			}
		}

		appointment.Cancel(userID, req.Reason)

		if err := gdb.Save(&appointment).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to cancel appointment",
				Error:   err.Error(),
			})
		}

		if err := gdb.Preload("Doctor").First(&appointment, appointment.ID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load appointment",
				Error:   err.Error(),
			})
		}

		var patient models.User
		if err := gdb.First(&patient, appointment.PatientID).Error; err == nil {
			sendCancellationEmail(cfg, &patient, &appointment)
		}

		return c.JSON(appointment)
	}
}

type UpdateStatusRequest struct {
	Status models.AppointmentStatus `json:"status"`
}

// UpdateAppointmentStatus overwrites the status (admin only). Any-to-any
// transitions are allowed as an administrative override; only membership in
// the status enum is checked.
func UpdateAppointmentStatus(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(UpdateStatusRequest)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}
		if !req.Status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid status",
			})
		}

		var appointment models.Appointment
		if err := gdb.First(&appointment, c.Params("id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Appointment not found",
			})
		}

		if err := gdb.Model(&appointment).Update("status", req.Status).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update appointment status",
				Error:   err.Error(),
			})
		}

		if err := gdb.Preload("Doctor").Preload("Patient").First(&appointment, appointment.ID).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to load appointment",
				Error:   err.Error(),
			})
		}

		return c.JSON(appointment)
	}
}

// parseAppointmentDate accepts either a full RFC 3339 instant or a bare
// calendar date.
func parseAppointmentDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

func sendBookingEmail(cfg *config.Config, patient *models.User, appointment *models.Appointment) {
	if !cfg.SMTP.Configured() {
		return
	}
	subject := "Appointment Confirmed"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been booked.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s (%s)</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
		</ul>
		<p>Best regards,</p>
		<p>MedBook</p>
	`, patient.Name, appointment.Doctor.Name, appointment.Doctor.Specialization,
		appointment.Date.Format("2006-01-02"), appointment.TimeSlot)

	go func() {
		if err := utils.SendEmail(cfg.SMTP, patient.Email, subject, body); err != nil {
			log.Printf("Failed to send booking email for appointment %d: %v", appointment.ID, err)
		}
	}()
}

func sendCancellationEmail(cfg *config.Config, patient *models.User, appointment *models.Appointment) {
	if !cfg.SMTP.Configured() {
		return
	}
	subject := "Appointment Cancelled"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment with %s on %s at %s has been cancelled.</p>
		<p><strong>Reason:</strong> %s</p>
		<p>Best regards,</p>
		<p>MedBook</p>
	`, patient.Name, appointment.Doctor.Name,
		appointment.Date.Format("2006-01-02"), appointment.TimeSlot,
		appointment.CancellationReason)

	go func() {
		if err := utils.SendEmail(cfg.SMTP, patient.Email, subject, body); err != nil {
			log.Printf("Failed to send cancellation email for appointment %d: %v", appointment.ID, err)
		}
	}()
}
