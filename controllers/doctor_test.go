package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbook/medbook-server/models"
)

func TestListDoctorsFiltering(t *testing.T) {
	app, gdb := newTestApp(t)
	createDoctor(t, gdb, "Dr. Kumar", "Cardiology", "kumar@hospital.com", true)
	createDoctor(t, gdb, "Dr. Verma", "Dermatology", "verma@hospital.com", true)
	createDoctor(t, gdb, "Dr. Gone", "Cardiology", "gone@hospital.com", false)

	resp := doJSON(t, app, http.MethodGet, "/doctors", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doctors []models.Doctor
	decodeBody(t, resp, &doctors)
	assert.Len(t, doctors, 2, "deactivated doctors are hidden from the listing")

	// case-insensitive substring match
	resp = doJSON(t, app, http.MethodGet, "/doctors?specialization=CARDIO", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &doctors)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Kumar", doctors[0].Name)
}

func TestDoctorManagementRequiresAdmin(t *testing.T) {
	app, gdb := newTestApp(t)
	createUser(t, gdb, "P1", "p1@example.com", "hunter22", models.RolePatient)
	createUser(t, gdb, "Admin", "admin@medbook.com", "admin123", models.RoleAdmin)
	token := login(t, app, "p1@example.com", "hunter22")
	adminToken := login(t, app, "admin@medbook.com", "admin123")

	body := fiber.Map{
		"name":           "Dr. Patel",
		"specialization": "Orthopedics",
		"email":          "patel@hospital.com",
		"phone":          "+91 98765 43213",
	}

	resp := doJSON(t, app, http.MethodPost, "/doctors", token, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/doctors", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/doctors", adminToken, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Doctor
	decodeBody(t, resp, &created)
	assert.True(t, created.IsActive)
	assert.Equal(t, "09:00", created.WorkStart, "working hours default")
	assert.Equal(t, 30, created.SlotDuration, "slot duration defaults to 30 minutes")

	// partial update
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/doctors/%d", created.ID), adminToken, fiber.Map{
		"consultation_fee": 1500.0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Doctor
	decodeBody(t, resp, &updated)
	assert.Equal(t, 1500.0, updated.ConsultationFee)
	assert.Equal(t, "Dr. Patel", updated.Name, "untouched fields survive a partial update")
}

func TestDoctorSoftDelete(t *testing.T) {
	app, gdb := newTestApp(t)
	doctor := createDoctor(t, gdb, "Dr. Kumar", "Cardiology", "kumar@hospital.com", true)
	createUser(t, gdb, "P1", "p1@example.com", "hunter22", models.RolePatient)
	createUser(t, gdb, "Admin", "admin@medbook.com", "admin123", models.RoleAdmin)
	token := login(t, app, "p1@example.com", "hunter22")
	adminToken := login(t, app, "admin@medbook.com", "admin123")

	// book first, then deactivate the doctor
	resp := doJSON(t, app, http.MethodPost, "/appointments", token, fiber.Map{
		"doctor_id": doctor.ID,
		"date":      futureDate(2),
		"time_slot": "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var appointment models.Appointment
	decodeBody(t, resp, &appointment)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/doctors/%d", doctor.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// gone from the listing
	resp = doJSON(t, app, http.MethodGet, "/doctors", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doctors []models.Doctor
	decodeBody(t, resp, &doctors)
	assert.Empty(t, doctors)

	// but the detail and the historical appointment stay resolvable
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/doctors/%d", doctor.ID), "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, appointmentPath(appointment.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Appointment
	decodeBody(t, resp, &fetched)
	assert.Equal(t, doctor.Name, fetched.Doctor.Name)

	// no new bookings against a deactivated doctor
	resp = doJSON(t, app, http.MethodPost, "/appointments", token, fiber.Map{
		"doctor_id": doctor.ID,
		"date":      futureDate(3),
		"time_slot": "10:00",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDoctorSlots(t *testing.T) {
	app, gdb := newTestApp(t)
	doctor := models.Doctor{
		Name:           "Dr. Kumar",
		Specialization: "Cardiology",
		Email:          "kumar@hospital.com",
		Phone:          "+1 555 000",
		AvailableDays: models.StringList{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		WorkStart:    "09:00",
		WorkEnd:      "11:00",
		SlotDuration: 30,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(&doctor).Error)
	createUser(t, gdb, "P1", "p1@example.com", "hunter22", models.RolePatient)
	token := login(t, app, "p1@example.com", "hunter22")

	day := time.Now().UTC().Add(48 * time.Hour).Format("2006-01-02")
	slotsPath := fmt.Sprintf("/doctors/%d/slots?date=%s", doctor.ID, day)

	resp := doJSON(t, app, http.MethodGet, slotsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Slots []string `json:"slots"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, body.Slots)

	// a booked slot disappears from the listing
	resp = doJSON(t, app, http.MethodPost, "/appointments", token, fiber.Map{
		"doctor_id": doctor.ID,
		"date":      day,
		"time_slot": "09:30",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, slotsPath, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &body)
	assert.Equal(t, []string{"09:00", "10:00", "10:30"}, body.Slots)

	// missing date parameter
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/doctors/%d/slots", doctor.ID), "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDoctorSlotsOffDay(t *testing.T) {
	app, gdb := newTestApp(t)
	doctor := models.Doctor{
		Name:           "Dr. Verma",
		Specialization: "Dermatology",
		Email:          "verma@hospital.com",
		Phone:          "+1 555 001",
		AvailableDays:  models.StringList{"Monday"},
		WorkStart:      "09:00",
		WorkEnd:        "17:00",
		SlotDuration:   30,
		IsActive:       true,
	}
	require.NoError(t, gdb.Create(&doctor).Error)

	// first future date that is not a Monday
	day := time.Now().UTC().Add(48 * time.Hour)
	for day.Weekday() == time.Monday {
		day = day.Add(24 * time.Hour)
	}
	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/doctors/%d/slots?date=%s", doctor.ID, day.Format("2006-01-02")), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Slots []string `json:"slots"`
	}
	decodeBody(t, resp, &body)
	assert.Empty(t, body.Slots)
}
