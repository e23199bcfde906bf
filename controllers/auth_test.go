package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbook/medbook-server/models"
)

func TestRegisterCreatesPatient(t *testing.T) {
	app, gdb := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"name":     "Jane Roe",
		"email":    "Jane.Roe@Example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.User
	decodeBody(t, resp, &created)
	assert.Equal(t, models.RolePatient, created.Role)
	assert.Equal(t, "jane.roe@example.com", created.Email, "email is stored lowercased")

	var stored models.User
	require.NoError(t, gdb.Where("email = ?", "jane.roe@example.com").First(&stored).Error)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)

	body := fiber.Map{"name": "Jane", "email": "jane@example.com", "password": "hunter22"}
	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// same address with different casing still collides
	body["email"] = "JANE@example.com"
	resp = doJSON(t, app, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterMissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
		"email": "jane@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginAndMe(t *testing.T) {
	app, gdb := newTestApp(t)
	user := createUser(t, gdb, "Jane", "jane@example.com", "hunter22", models.RolePatient)

	token := login(t, app, "jane@example.com", "hunter22")

	resp := doJSON(t, app, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		User models.User `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, user.ID, body.User.ID)
	assert.Equal(t, user.Email, body.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	app, gdb := newTestApp(t)
	createUser(t, gdb, "Jane", "jane@example.com", "hunter22", models.RolePatient)

	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "jane@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshToken(t *testing.T) {
	app, gdb := newTestApp(t)
	createUser(t, gdb, "Jane", "jane@example.com", "hunter22", models.RolePatient)

	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    "jane@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		RefreshToken string `json:"refreshToken"`
	}
	decodeBody(t, resp, &loginBody)
	require.NotEmpty(t, loginBody.RefreshToken)

	resp = doJSON(t, app, http.MethodPost, "/auth/refresh", "", fiber.Map{
		"refreshToken": loginBody.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshBody struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &refreshBody)
	assert.NotEmpty(t, refreshBody.Token)

	resp = doJSON(t, app, http.MethodPost, "/auth/refresh", "", fiber.Map{
		"refreshToken": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
