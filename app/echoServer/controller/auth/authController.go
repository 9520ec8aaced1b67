package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/krishaprecyll/CampusSHARE/app/echoServer/jwtx"
	"github.com/krishaprecyll/CampusSHARE/model"
	authsvc "github.com/krishaprecyll/CampusSHARE/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Create an auth identity and a student profile row
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email already registered"
// @Failure      500  {object}  map[string]any "internal server error"
// @Router       /v1/auth/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq

	// Bind
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	// Validate: password length and confirm mismatch are rejected here,
	// before any write is issued.
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		case errors.Is(err, authsvc.ErrBadInput):
			return echo.NewHTTPError(http.StatusBadRequest, "bad input")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("register failed",
				"err", err,
				"req_id", rid,
				"path", c.Path(),
				"method", c.Request().Method,
			)
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"user":    u,
		"token":   token,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidCreds):
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed",
				"err", err,
				"req_id", rid,
				"path", c.Path(),
				"method", c.Request().Method,
			)
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
		"user":    u,
	})
}

// POST /v1/auth/logout
func (ct *Controller) Logout(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	ct.Svc.Logout(c.Request().Context(), uid)
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

// GET /v1/profile
func (ct *Controller) Profile(c echo.Context) error {
	u, err := jwtx.PrincipalFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(http.StatusOK, u)
}

// PATCH /v1/profile
func (ct *Controller) UpdateProfile(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)

	var req model.ProfileUpdateReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	u, err := ct.Svc.UpdateProfile(c.Request().Context(), uid, req)
	if err != nil {
		if errors.Is(err, authsvc.ErrNoSession) {
			return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
		}
		ct.Log.Error("profile update failed", "err", err, "path", c.Path())
		return echo.NewHTTPError(http.StatusInternalServerError, "profile update failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated",
		"user":    u,
	})
}
