package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/krishaprecyll/CampusSHARE/model"
	adminsvc "github.com/krishaprecyll/CampusSHARE/service/admin"
	dashsvc "github.com/krishaprecyll/CampusSHARE/service/dashboard"
	statssvc "github.com/krishaprecyll/CampusSHARE/service/stats"
)

type Controller struct {
	Auth  adminsvc.Service
	Dash  dashsvc.Service
	Stats statssvc.Service
	V     *validator.Validate
	Log   *slog.Logger
}

// Login
// @Summary      Admin login
// @Description  Login with email + password; only principals whose stored role is admin are accepted
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any "admin access required"
// @Router       /v1/admin/login [post]
func (h *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.V.Struct(req); err != nil {
		h.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := h.Auth.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, adminsvc.ErrInvalidCreds):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, adminsvc.ErrNotAdmin):
			return echo.NewHTTPError(http.StatusForbidden, "Unauthorized: Admin access required")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			h.Log.Error("admin login failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
		"admin":   u,
	})
}

// POST /v1/admin/logout
func (h *Controller) Logout(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	h.Auth.Logout(c.Request().Context(), uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

// GET /v1/admin/stats
func (h *Controller) Overview(c echo.Context) error {
	out, err := h.Stats.Overview(c.Request().Context())
	if err != nil {
		h.Log.Error("stats fetch failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /v1/admin/users?q=&refresh=
func (h *Controller) Users(c echo.Context) error {
	rows, err := h.Dash.Users(c.Request().Context(), c.QueryParam("q"), refresh(c))
	if err != nil {
		h.Log.Error("user list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "count": len(rows)})
}

// GET /v1/admin/items?q=&refresh=
func (h *Controller) Items(c echo.Context) error {
	rows, err := h.Dash.Items(c.Request().Context(), c.QueryParam("q"), refresh(c))
	if err != nil {
		h.Log.Error("item list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "count": len(rows)})
}

// DELETE /v1/admin/items/:id
func (h *Controller) DeleteItem(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Dash.DeleteItem(c.Request().Context(), id); err != nil {
		switch dashsvc.Code(err) {
		case dashsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "item not found"})
		default:
			h.Log.Error("item delete error", "err", err, "item_id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted", "id": id})
}

// GET /v1/admin/rentals?q=&refresh=
func (h *Controller) Rentals(c echo.Context) error {
	rows, err := h.Dash.Rentals(c.Request().Context(), c.QueryParam("q"), refresh(c))
	if err != nil {
		h.Log.Error("rental list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "count": len(rows)})
}

// PATCH /v1/admin/rentals/:id/status
func (h *Controller) SetRentalStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req SetRentalStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"status": "missing or unknown status"},
		})
	}

	commit, err := h.Dash.SetRentalStatus(c.Request().Context(), id, model.RentalStatus(req.Status))
	if err != nil {
		switch dashsvc.Code(err) {
		case dashsvc.ErrBadStatus:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown status"})
		case dashsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "rental not found"})
		default:
			h.Log.Error("rental status error", "err", err, "rental_id", id)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "status updated",
		"id":      id,
		"status":  req.Status,
		"commit":  commit,
	})
}

func refresh(c echo.Context) bool {
	v := c.QueryParam("refresh")
	return v == "1" || v == "true"
}
