package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/cache"
	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/models"
	"github.com/medbook/medbook-server/utils"
)

const doctorCachePrefix = "doctors:"
const doctorCacheTTL = 5 * time.Minute

// ListDoctors returns all active doctors, optionally filtered by a
// case-insensitive substring match on specialization. Deactivated doctors
// never appear here.
func ListDoctors(gdb *gorm.DB, cc *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		specialization := strings.TrimSpace(c.Query("specialization"))
		cacheKey := doctorCachePrefix + strings.ToLower(specialization)

		if data, ok := cc.Get(c.Context(), cacheKey); ok {
			return c.Type("json").Send(data)
		}

		query := gdb.Where("is_active = ?", true)
		if specialization != "" {
			query = query.Where("LOWER(specialization) LIKE ?", "%"+strings.ToLower(specialization)+"%")
		}

		var doctors []models.Doctor
		if err := query.Order("name asc").Find(&doctors).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch doctors",
				Error:   err.Error(),
			})
		}

		if data, err := json.Marshal(doctors); err == nil {
			cc.Set(c.Context(), cacheKey, data, doctorCacheTTL)
		}

		return c.JSON(doctors)
	}
}

// GetDoctor returns a doctor by ID. Deactivated doctors are still returned
// so that historical appointments stay resolvable.
func GetDoctor(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doctor models.Doctor
		if err := gdb.First(&doctor, c.Params("id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}
		return c.JSON(doctor)
	}
}

type CreateDoctorRequest struct {
	Name            string   `json:"name" validate:"required"`
	Specialization  string   `json:"specialization" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone" validate:"required"`
	Qualification   string   `json:"qualification"`
	Experience      int      `json:"experience"`
	ConsultationFee float64  `json:"consultation_fee"`
	AvailableDays   []string `json:"available_days"`
	WorkStart       string   `json:"work_start"`
	WorkEnd         string   `json:"work_end"`
	SlotDuration    int      `json:"slot_duration"`
	Bio             string   `json:"bio"`
}

// CreateDoctor registers a new provider profile (admin only).
func CreateDoctor(gdb *gorm.DB, cc *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(CreateDoctorRequest)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Missing required fields",
				Error:   err.Error(),
			})
		}
		if req.WorkStart != "" {
			if _, err := utils.ParseSlot(req.WorkStart); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Invalid working hours",
					Error:   err.Error(),
				})
			}
		}
		if req.WorkEnd != "" {
			if _, err := utils.ParseSlot(req.WorkEnd); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Invalid working hours",
					Error:   err.Error(),
				})
			}
		}

		doctor := models.Doctor{
			Name:            req.Name,
			Specialization:  req.Specialization,
			Email:           strings.ToLower(strings.TrimSpace(req.Email)),
			Phone:           req.Phone,
			Qualification:   req.Qualification,
			Experience:      req.Experience,
			ConsultationFee: req.ConsultationFee,
			AvailableDays:   models.StringList(req.AvailableDays),
			WorkStart:       req.WorkStart,
			WorkEnd:         req.WorkEnd,
			SlotDuration:    req.SlotDuration,
			Bio:             req.Bio,
			IsActive:        true,
		}

		if err := gdb.Create(&doctor).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
					Message: "Doctor with this email already exists",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to create doctor",
				Error:   err.Error(),
			})
		}

		cc.InvalidatePrefix(c.Context(), doctorCachePrefix)

		return c.Status(fiber.StatusCreated).JSON(doctor)
	}
}

type UpdateDoctorRequest struct {
	Name            *string  `json:"name"`
	Specialization  *string  `json:"specialization"`
	Phone           *string  `json:"phone"`
	Qualification   *string  `json:"qualification"`
	Experience      *int     `json:"experience"`
	ConsultationFee *float64 `json:"consultation_fee"`
	AvailableDays   []string `json:"available_days"`
	WorkStart       *string  `json:"work_start"`
	WorkEnd         *string  `json:"work_end"`
	SlotDuration    *int     `json:"slot_duration"`
	Bio             *string  `json:"bio"`
	IsActive        *bool    `json:"is_active"`
}

// UpdateDoctor applies a partial update to a doctor profile (admin only).
func UpdateDoctor(gdb *gorm.DB, cc *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doctor models.Doctor
		if err := gdb.First(&doctor, c.Params("id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}

		req := new(UpdateDoctorRequest)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to parse request body",
				Error:   err.Error(),
			})
		}

		if req.Name != nil {
			doctor.Name = *req.Name
		}
		if req.Specialization != nil {
			doctor.Specialization = *req.Specialization
		}
		if req.Phone != nil {
			doctor.Phone = *req.Phone
		}
		if req.Qualification != nil {
			doctor.Qualification = *req.Qualification
		}
		if req.Experience != nil {
			doctor.Experience = *req.Experience
		}
		if req.ConsultationFee != nil {
			doctor.ConsultationFee = *req.ConsultationFee
		}
		if req.AvailableDays != nil {
			doctor.AvailableDays = models.StringList(req.AvailableDays)
		}
		if req.WorkStart != nil {
			if _, err := utils.ParseSlot(*req.WorkStart); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Invalid working hours",
					Error:   err.Error(),
				})
			}
			doctor.WorkStart = *req.WorkStart
		}
		if req.WorkEnd != nil {
			if _, err := utils.ParseSlot(*req.WorkEnd); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Invalid working hours",
					Error:   err.Error(),
				})
			}
			doctor.WorkEnd = *req.WorkEnd
		}
		if req.SlotDuration != nil {
			doctor.SlotDuration = *req.SlotDuration
		}
		if req.Bio != nil {
			doctor.Bio = *req.Bio
		}
		if req.IsActive != nil {
			doctor.IsActive = *req.IsActive
		}

		if err := gdb.Save(&doctor).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to update doctor",
				Error:   err.Error(),
			})
		}

		cc.InvalidatePrefix(c.Context(), doctorCachePrefix)

		return c.JSON(doctor)
	}
}

// DeleteDoctor deactivates a doctor (admin only). The row is never removed;
// historical appointments keep referencing it.
func DeleteDoctor(gdb *gorm.DB, cc *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doctor models.Doctor
		if err := gdb.First(&doctor, c.Params("id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}

		if err := gdb.Model(&doctor).Update("is_active", false).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to deactivate doctor",
				Error:   err.Error(),
			})
		}

		cc.InvalidatePrefix(c.Context(), doctorCachePrefix)

		return c.JSON(fiber.Map{
			"message": "Doctor deactivated successfully",
		})
	}
}

// UploadDoctorImage stores a portrait for the doctor (admin only).
func UploadDoctorImage(gdb *gorm.DB, cfg *config.Config, cc *cache.Cache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doctor models.Doctor
		if err := gdb.First(&doctor, c.Params("id")).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found",
			})
		}

		if !cfg.Cloudinary.Configured() {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Image hosting is not configured",
			})
		}

		file, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Failed to get image file",
				Error:   err.Error(),
			})
		}

		f, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to open image file",
				Error:   err.Error(),
			})
		}
		defer f.Close()

		publicID := fmt.Sprintf("doctor_%d_%d", doctor.ID, time.Now().Unix())
		secureURL, err := utils.UploadToCloudinary(cfg.Cloudinary, f, publicID, "doctor_portraits")
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to upload image",
				Error:   err.Error(),
			})
		}

		if err := gdb.Model(&doctor).Update("image_url", secureURL).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to save image URL",
				Error:   err.Error(),
			})
		}

		cc.InvalidatePrefix(c.Context(), doctorCachePrefix)

		return c.JSON(fiber.Map{"image_url": secureURL})
	}
}

// GetDoctorSlots lists the free slot labels for a doctor on one day. It is
// informational only; booking itself is arbitrated by the ledger.
func GetDoctorSlots(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var doctor models.Doctor
		if err := gdb.First(&doctor, c.Params("id")).Error; err != nil || !doctor.IsActive {
			return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
				Message: "Doctor not found or inactive",
			})
		}

		day, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid or missing date, expected YYYY-MM-DD",
			})
		}

		if !doctor.WorksOn(day.Weekday()) {
			return c.JSON(fiber.Map{
				"date":  c.Query("date"),
				"slots": []string{},
			})
		}

		all, err := utils.ExpandSlots(doctor.WorkStart, doctor.WorkEnd, doctor.SlotDuration)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to compute slots",
				Error:   err.Error(),
			})
		}

		dayStart, dayEnd := utils.DayBounds(day)
		var booked []models.Appointment
		err = gdb.Where("doctor_id = ? AND date BETWEEN ? AND ? AND status = ?",
			doctor.ID, dayStart, dayEnd, models.StatusBooked).Find(&booked).Error
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch appointments",
				Error:   err.Error(),
			})
		}

		taken := make(map[string]bool, len(booked))
		for _, appointment := range booked {
			taken[appointment.TimeSlot] = true
		}

		free := make([]string, 0, len(all))
		for _, slot := range all {
			if !taken[slot] {
				free = append(free, slot)
			}
		}

		return c.JSON(fiber.Map{
			"date":  c.Query("date"),
			"slots": free,
		})
	}
}
