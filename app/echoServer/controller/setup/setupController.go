// Package setup exposes the one-shot admin provisioning endpoint. It is
// CORS-open to any origin and accepts no request body.
package setup

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	bootstrapsvc "github.com/krishaprecyll/CampusSHARE/service/bootstrap"
)

type Controller struct {
	Svc bootstrapsvc.Service
	Log *slog.Logger
}

func corsHeaders(c echo.Context) {
	h := c.Response().Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Client-Info, Apikey")
}

// OPTIONS /admin/setup
func (h *Controller) Preflight(c echo.Context) error {
	corsHeaders(c)
	return c.NoContent(http.StatusOK)
}

// POST /admin/setup
func (h *Controller) Setup(c echo.Context) error {
	corsHeaders(c)

	res, err := h.Svc.Run(c.Request().Context())
	if err != nil {
		h.Log.Error("admin setup failed", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	body := echo.Map{
		"success": true,
		"message": res.Message,
		"email":   res.Email,
	}
	if res.UserID != "" {
		body["userId"] = res.UserID
	}
	return c.JSON(http.StatusOK, body)
}
