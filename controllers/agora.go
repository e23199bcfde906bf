package controllers

import (
	"math/rand"
	"strconv"
	"time"

	rtctokenbuilder "github.com/AgoraIO-Community/go-tokenbuilder/rtctokenbuilder"
	"github.com/gofiber/fiber/v2"

	"github.com/medbook/medbook-server/config"
	"github.com/medbook/medbook-server/utils"
)

const rtcTokenValidity = 24 * time.Hour

// GenerateRTCToken issues a short-lived video-session token for a channel.
// The channel name is the appointment id by convention, but the issuer does
// not care; it is a pure pass-through to the RTC provider.
func GenerateRTCToken(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		channelName := c.Query("channelName")
		if channelName == "" {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Channel name is required",
			})
		}

		if !cfg.Agora.Configured() {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Agora credentials not configured",
			})
		}

		var uid uint32
		if raw := c.Query("uid"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
					Message: "Invalid uid",
					Error:   err.Error(),
				})
			}
			uid = uint32(parsed)
		} else {
			uid = uint32(rand.Intn(1000000))
		}

		expireTimestamp := uint32(time.Now().Add(rtcTokenValidity).Unix())
		token, err := rtctokenbuilder.BuildTokenWithUID(
			cfg.Agora.AppID, cfg.Agora.AppCertificate,
			channelName, uid, rtctokenbuilder.RolePublisher, expireTimestamp)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to generate token",
				Error:   err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"token":       token,
			"appId":       cfg.Agora.AppID,
			"channelName": channelName,
			"uid":         uid,
		})
	}
}
