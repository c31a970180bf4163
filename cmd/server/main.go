package main

import (
	"log"

	"comanda-system/config"
	"comanda-system/internal/api"
	"comanda-system/internal/database"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.Auth.Secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := database.NewConnection(cfg.DB.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	r := api.NewRouter(cfg, db, redisClient)

	log.Printf(" 🍽  comanda server listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
