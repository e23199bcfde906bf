package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/db"
	"github.com/medbook/medbook-server/models"
	"github.com/medbook/medbook-server/routes"
)

var dbCounter int64

// newTestApp wires the full route surface against a fresh in-memory store.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbCounter, 1))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
	}

	app := fiber.New()
	routes.SetupAuthRoutes(app, gdb, cfg)
	routes.SetupUserRoutes(app, gdb, cfg)
	routes.SetupDoctorRoutes(app, gdb, cfg, nil)
	routes.SetupAppointmentRoutes(app, gdb, cfg)
	routes.SetupAgoraRoutes(app, cfg)

	return app, gdb
}

func createUser(t *testing.T, gdb *gorm.DB, name, email, password string, role models.Role) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return user
}

func createDoctor(t *testing.T, gdb *gorm.DB, name, specialization, email string, active bool) models.Doctor {
	t.Helper()
	doctor := models.Doctor{
		Name:           name,
		Specialization: specialization,
		Email:          email,
		Phone:          "+1 555 000",
		AvailableDays: models.StringList{
			"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
		},
		IsActive: true,
	}
	require.NoError(t, gdb.Create(&doctor).Error)
	if !active {
		require.NoError(t, gdb.Model(&doctor).Update("is_active", false).Error)
		doctor.IsActive = false
	}
	return doctor
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// futureDate returns an RFC 3339 date n days ahead, truncated to the second
// so it round-trips exactly through JSON and the store.
func futureDate(n int) string {
	return time.Now().UTC().Add(time.Duration(n) * 24 * time.Hour).Truncate(time.Second).Format(time.RFC3339)
}
