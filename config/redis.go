package config

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
)

var RDB *redis.Client

// ConnectRedis wires the cache used by the report endpoints. The backend
// keeps working without it; cache reads just miss.
func ConnectRedis() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := RDB.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis not reachable at %s: %v", addr, err)
	}
}
