package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/admin"
	"github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/auth"
	"github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/catalog"
	"github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/setup"
	"github.com/krishaprecyll/CampusSHARE/service/session"
)

type C struct {
	Auth    *auth.Controller
	Admin   *admin.Controller
	Catalog *catalog.Controller
	Setup   *setup.Controller

	UserSessions  *session.Manager
	AdminSessions *session.Manager
	JWTSecret     string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.POST("/admin/login", c.Admin.Login)
	pub.GET("/items", c.Catalog.List)
	pub.GET("/items/:id", c.Catalog.Detail)

	// Bootstrap: CORS-open, no auth; the service itself is idempotent.
	e.POST("/admin/setup", c.Setup.Setup)
	e.OPTIONS("/admin/setup", c.Setup.Preflight)

	jwtMW := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization:Bearer ",
	})

	// End-user session
	user := e.Group("/v1")
	user.Use(jwtMW, Principal(c.UserSessions, c.JWTSecret))
	user.POST("/auth/logout", c.Auth.Logout)
	user.GET("/profile", c.Auth.Profile)
	user.PATCH("/profile", c.Auth.UpdateProfile)

	// Admin session: the role gate runs server-side on every request.
	adm := e.Group("/v1/admin")
	adm.Use(jwtMW, Principal(c.AdminSessions, c.JWTSecret))
	adm.POST("/logout", c.Admin.Logout)
	adm.GET("/stats", c.Admin.Overview)
	adm.GET("/users", c.Admin.Users)
	adm.GET("/items", c.Admin.Items)
	adm.DELETE("/items/:id", c.Admin.DeleteItem)
	adm.GET("/rentals", c.Admin.Rentals)
	adm.PATCH("/rentals/:id/status", c.Admin.SetRentalStatus)
}
