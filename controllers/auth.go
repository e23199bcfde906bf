package controllers

import (
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/models"
)

var validate = validator.New()

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"` // "2006-01-02", optional
	Address     string `json:"address"`
}

// Register handles user registration. New accounts are always patients;
// admin and doctor roles only come from seeding or an existing admin.
func Register(gdb *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(RegisterRequest)
		if err := c.BodyParser(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing required fields",
			})
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var existingUser models.User
		if gdb.Where("email = ?", email).First(&existingUser).RowsAffected > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User with this email already exists",
			})
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to hash password",
			})
		}

		user := models.User{
			Name:         req.Name,
			Email:        email,
			PasswordHash: string(hashedPassword),
			Role:         models.RolePatient,
			Phone:        req.Phone,
			Address:      req.Address,
		}
		if req.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", req.DateOfBirth)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid date_of_birth, expected YYYY-MM-DD",
				})
			}
			user.DateOfBirth = &dob
		}

		if err := gdb.Create(&user).Error; err != nil {
			log.Printf("Error creating user: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create user",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// Login handles user authentication
func Login(gdb *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type LoginInput struct {
			Email    string `json:"email" validate:"required"`
			Password string `json:"password" validate:"required"`
		}

		input := new(LoginInput)
		if err := c.BodyParser(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}
		if err := validate.Struct(input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing required fields",
			})
		}

		var user models.User
		if gdb.Where("email = ?", strings.ToLower(input.Email)).First(&user).RowsAffected == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid credentials",
			})
		}

		tokenString, err := signToken(cfg.JWTSecret, jwt.MapClaims{
			"id":    user.ID,
			"email": user.Email,
			"role":  string(user.Role),
			"exp":   time.Now().Add(time.Hour * 24).Unix(),
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate token",
			})
		}

		refreshTokenString, err := signToken(cfg.JWTSecret, jwt.MapClaims{
			"id":    user.ID,
			"email": user.Email,
			"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(),
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate refresh token",
			})
		}

		return c.JSON(fiber.Map{
			"token":        tokenString,
			"refreshToken": refreshTokenString,
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		})
	}
}

// Me echoes the identity resolved by the auth middleware.
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("currentUser").(*models.User)
		return c.JSON(fiber.Map{"user": user})
	}
}

// RefreshToken generates a new access token using a refresh token
func RefreshToken(gdb *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type RefreshRequest struct {
			RefreshToken string `json:"refreshToken"`
		}

		refreshRequest := new(RefreshRequest)
		if err := c.BodyParser(refreshRequest); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Cannot parse JSON",
			})
		}

		token, err := jwt.Parse(refreshRequest.RefreshToken, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid refresh token",
			})
		}

		claims := token.Claims.(jwt.MapClaims)
		userID, ok := claims["id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid refresh token",
			})
		}

		var user models.User
		if err := gdb.First(&user, uint(userID)).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid refresh token",
			})
		}

		tokenString, err := signToken(cfg.JWTSecret, jwt.MapClaims{
			"id":    user.ID,
			"email": user.Email,
			"role":  string(user.Role),
			"exp":   time.Now().Add(time.Hour * 24).Unix(),
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to generate token",
			})
		}

		return c.JSON(fiber.Map{
			"token": tokenString,
		})
	}
}

func signToken(secret string, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
