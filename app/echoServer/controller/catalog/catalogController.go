package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	catalogsvc "github.com/krishaprecyll/CampusSHARE/service/catalog"
)

type Controller struct {
	Svc catalogsvc.Service
	Log *slog.Logger
}

// GET /v1/items?category=
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		h.Log.Error("catalog list error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/items/:id
func (h *Controller) Detail(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, catalogsvc.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "not found"})
		}
		h.Log.Error("catalog detail error", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, row)
}
