// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/krishaprecyll/CampusSHARE/model"
)

// PrincipalFromContext returns the profile stored by the Principal middleware.
func PrincipalFromContext(c echo.Context) (*model.User, error) {
	u, ok := c.Get("principal").(*model.User)
	if !ok || u == nil {
		return nil, errors.New("no principal in context")
	}
	return u, nil
}
