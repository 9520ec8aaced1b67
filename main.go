// Package main CampusSHARE API.
//
// @title           CampusSHARE Rental API
// @version         1.0
// @description     Campus item-rental service (catalog, profiles, admin dashboard).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/krishaprecyll/CampusSHARE/app/echoServer"
	adminctrl "github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/admin"
	authctrl "github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/auth"
	catalogctrl "github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/catalog"
	setupctrl "github.com/krishaprecyll/CampusSHARE/app/echoServer/controller/setup"
	"github.com/krishaprecyll/CampusSHARE/app/echoServer/validation"
	"github.com/krishaprecyll/CampusSHARE/config"
	"github.com/krishaprecyll/CampusSHARE/model"
	authrepo "github.com/krishaprecyll/CampusSHARE/repository/auth"
	itemrepo "github.com/krishaprecyll/CampusSHARE/repository/item"
	rentalrepo "github.com/krishaprecyll/CampusSHARE/repository/rental"
	txrepo "github.com/krishaprecyll/CampusSHARE/repository/transaction"
	userrepo "github.com/krishaprecyll/CampusSHARE/repository/user"
	adminsvc "github.com/krishaprecyll/CampusSHARE/service/admin"
	authsvc "github.com/krishaprecyll/CampusSHARE/service/auth"
	bootstrapsvc "github.com/krishaprecyll/CampusSHARE/service/bootstrap"
	catalogsvc "github.com/krishaprecyll/CampusSHARE/service/catalog"
	dashsvc "github.com/krishaprecyll/CampusSHARE/service/dashboard"
	"github.com/krishaprecyll/CampusSHARE/service/session"
	statssvc "github.com/krishaprecyll/CampusSHARE/service/stats"
	"github.com/krishaprecyll/CampusSHARE/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	ur := userrepo.New(db)
	ir := itemrepo.New(db)
	rr := rentalrepo.New(db)
	tr := txrepo.New(db)

	// session plumbing
	broker := session.NewBroker()
	userSessions := session.NewManager(ur, broker, log)
	adminSessions := session.NewManager(ur, broker, log).RequireRole(model.RoleAdmin)
	userSessions.Init(ctx)
	adminSessions.Init(ctx)
	defer userSessions.Close()
	defer adminSessions.Close()

	// services
	as := authsvc.New(ar, ur, broker, cfg.JWTSecret, log)
	ads := adminsvc.New(ar, ur, broker, cfg.JWTSecret, log)
	ds := dashsvc.New(ur, ir, rr, log)
	ss := statssvc.New(ur, ir, rr, tr)
	bs := bootstrapsvc.New(ar, ur, cfg.AdminEmail, cfg.AdminPassword, log)
	cs := catalogsvc.New(ir)

	// controllers
	val := validation.New()
	v := val.Core()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	adminC := &adminctrl.Controller{Auth: ads, Dash: ds, Stats: ss, V: v, Log: log}
	catalogC := &catalogctrl.Controller{Svc: cs, Log: log}
	setupC := &setupctrl.Controller{Svc: bs, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e, cfg.CORSOrigins)
	e.Validator = val

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Admin:   adminC,
		Catalog: catalogC,
		Setup:   setupC,

		UserSessions:  userSessions,
		AdminSessions: adminSessions,
		JWTSecret:     cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
