package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/hera-security/hera-backend/internal/dto"
)

// deeplinkTargets is the allow-list of app screens reachable via the
// web redirect. Anything else is rejected to keep this from becoming an
// open redirect.
var deeplinkTargets = map[string]bool{
	"update-password": true,
}

type DeeplinkHandler struct {
	appDomain string
}

func NewDeeplinkHandler(appDomain string) *DeeplinkHandler {
	return &DeeplinkHandler{appDomain: appDomain}
}

// Redirect bridges emailed links into the mobile app: GET
// /deeplink?to=update-password&token=... issues a 302 to the app
// domain with the token preserved.
func (h *DeeplinkHandler) Redirect(c *fiber.Ctx) error {
	target := c.Query("to")
	if !deeplinkTargets[target] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Unknown deeplink target",
		})
	}

	location := h.appDomain + "/" + target
	if token := c.Query("token"); token != "" {
		location += "?token=" + url.QueryEscape(token)
	}
	return c.Redirect(location, fiber.StatusFound)
}
