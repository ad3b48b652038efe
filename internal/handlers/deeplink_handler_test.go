package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeeplinkApp() *fiber.App {
	app := fiber.New()
	app.Get("/deeplink", NewDeeplinkHandler("https://app.test").Redirect)
	return app
}

func TestDeeplinkRedirect(t *testing.T) {
	app := newDeeplinkApp()

	req := httptest.NewRequest("GET", "/deeplink?to=update-password&token=abc123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://app.test/update-password?token=abc123", resp.Header.Get("Location"))
}

func TestDeeplinkRejectsUnknownTarget(t *testing.T) {
	app := newDeeplinkApp()

	for _, target := range []string{"", "evil", "login", "//attacker.test"} {
		req := httptest.NewRequest("GET", "/deeplink?to="+target, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	}
}

func TestDeeplinkWithoutTokenOmitsQuery(t *testing.T) {
	app := newDeeplinkApp()

	req := httptest.NewRequest("GET", "/deeplink?to=update-password", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://app.test/update-password", resp.Header.Get("Location"))
}
