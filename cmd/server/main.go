package main

import (
	"log"

	"github.com/moyora/dinner-api/internal/config"
	"github.com/moyora/dinner-api/internal/entity"
	"github.com/moyora/dinner-api/internal/server"
	"github.com/moyora/dinner-api/pkg/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without notification fan-out and rate limiting")
	}

	srv := server.NewServer(cfg, db, redisClient)
	if err := srv.Run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Event{},
		&entity.Participation{},
		&entity.StagePointLog{},
		&entity.Review{},
		&entity.Match{},
		&entity.Notification{},
	); err != nil {
		return err
	}

	// One non-canceled participation per (user, event). Partial index, so
	// canceled history rows don't collide with a reactivated entry.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participations_active_user_event
		 ON participations (user_id, event_id)
		 WHERE status <> 'canceled'`,
	).Error
}
