package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/booking"
	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/database"
	"github.com/iliyamo/cinema-session-booking/internal/handler"
	"github.com/iliyamo/cinema-session-booking/internal/queue"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewSQLStore(db)
	engine := booking.NewEngine(store)

	tokens := repository.NewTokenRepo(db)
	authH := handler.NewAuthHandler(cfg, store.Users, tokens)
	adminH := handler.NewAdminHandler(engine, store.Films, store.Halls, store.Sessions)
	sessionH := handler.NewSessionHandler(store.Sessions)
	purchaseH := handler.NewPurchaseHandler(engine, store.Sessions, store.Purchases)

	rdb := config.NewRedisClient()

	// Broker consumer reconnects on its own; a dead broker never blocks the API.
	go func() {
		if err := queue.StartTicketsConsumer(); err != nil {
			log.Printf("tickets consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterPublic(e, sessionH, rdb)
	router.RegisterPurchases(e, purchaseH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
