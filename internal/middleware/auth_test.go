package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mara/routinely-api/internal/config"
)

func TestProtectedAcceptsConfiguredSecret(t *testing.T) {
	Setup(&config.Config{JWTSecret: "test-secret"})
	userID := uuid.New()

	token, err := GenerateToken(userID, "alex@example.com")
	require.NoError(t, err)

	var seen uuid.UUID
	app := fiber.New()
	app.Get("/guarded", Protected(), func(c *fiber.Ctx) error {
		seen = GetUserID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, seen)
}

func TestProtectedRejectsTokenSignedWithOtherSecret(t *testing.T) {
	Setup(&config.Config{JWTSecret: "old-secret"})
	token, err := GenerateToken(uuid.New(), "alex@example.com")
	require.NoError(t, err)

	// Rotating the secret invalidates outstanding tokens.
	Setup(&config.Config{JWTSecret: "new-secret"})

	app := fiber.New()
	app.Get("/guarded", Protected(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRejectsMissingAndMalformedHeaders(t *testing.T) {
	Setup(&config.Config{JWTSecret: "test-secret"})

	app := fiber.New()
	app.Get("/guarded", Protected(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetUserIDWithoutProtected(t *testing.T) {
	app := fiber.New()
	var seen uuid.UUID
	app.Get("/open", func(c *fiber.Ctx) error {
		seen = GetUserID(c)
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, seen)
}
