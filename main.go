package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/andrewpaige1/tcm-study-api/auth"
	"github.com/andrewpaige1/tcm-study-api/catalog"
	"github.com/andrewpaige1/tcm-study-api/config"
	"github.com/andrewpaige1/tcm-study-api/game"
	"github.com/andrewpaige1/tcm-study-api/handlers"
	"github.com/andrewpaige1/tcm-study-api/logger"
	"github.com/andrewpaige1/tcm-study-api/middleware"
	"github.com/andrewpaige1/tcm-study-api/store"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(env.LogMode, env.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	db, err := config.Connect(env, logg)
	if err != nil {
		logg.Fatal("database unavailable", "driver", env.DBDriver, "error", err)
	}

	issuer := auth.Issuer{
		Secret:   []byte(env.JWTSecret),
		Issuer:   env.JWTIssuer,
		Audience: env.JWTAudience,
	}
	authMiddleware, err := middleware.EnsureValidToken(issuer, logg)
	if err != nil {
		logg.Fatal("failed to set up the jwt validator", "error", err)
	}

	records := store.NewCollectionStore(db)
	games := game.NewStore(env.AutoAdvance, logg)
	games.TTL = env.SessionTTL
	games.MaxSessions = env.MaxSessions
	go games.Run(context.Background(), time.Minute)

	dbHandler := &handlers.DBHandler{
		DB:      db,
		Log:     logg,
		Records: records,
		Catalog: &catalog.Loader{
			Trees:       catalog.DirSource{Dir: env.DataDir},
			Collections: records,
			Log:         logg,
		},
		Games:  games,
		Tokens: issuer,
	}
	users := &middleware.Users{DB: db, Log: logg}
	mux := dbHandler.Routes(users, env.DataDir)

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   env.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(middleware.RequestLogger(logg)(authMiddleware(mux)))

	serverAddr := "0.0.0.0:" + env.Port
	logg.Info("listening", "addr", serverAddr, "dataDir", env.DataDir, "db", env.DBDriver)
	if err := http.ListenAndServe(serverAddr, corsHandler); err != nil {
		logg.Fatal("server stopped", "error", err)
	}
}
