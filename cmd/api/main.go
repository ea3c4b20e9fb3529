package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"lavacar/internal/config"
	"lavacar/internal/database"
	"lavacar/internal/middleware"
	"lavacar/internal/modules/address"
	"lavacar/internal/modules/analytics"
	"lavacar/internal/modules/auth"
	"lavacar/internal/modules/board"
	"lavacar/internal/modules/catalog"
	"lavacar/internal/modules/client"
	"lavacar/internal/modules/goal"
	"lavacar/internal/modules/schedule"
	jwtsvc "lavacar/internal/pkg/jwt"
	"lavacar/internal/store"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	st := store.NewGorm(db)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	hub := board.NewHub()

	authHandler := auth.NewHandler(auth.NewService(st, j))
	clientHandler := client.NewHandler(client.NewService(st))
	scheduleHandler := schedule.NewHandler(schedule.NewService(st, hub))
	catalogHandler := catalog.NewHandler(catalog.NewService(st))
	analyticsHandler := analytics.NewHandler(analytics.NewService(st))
	goalHandler := goal.NewHandler(goal.NewService(st))
	addressHandler := address.NewHandler(address.NewClient(cfg.ViaCEPBase))
	boardHandler := board.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		addressHandler.RegisterRoutes(v1)
		boardHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			clientHandler.RegisterRoutes(protected)
			scheduleHandler.RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			analyticsHandler.RegisterRoutes(protected)
			goalHandler.RegisterRoutes(protected)
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
