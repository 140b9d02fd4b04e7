package config

import (
	"fmt"

	"github.com/bloomapp/bloom-core/internal/storage"
)

// InitStorage opens the storage backend the configuration selects.
func InitStorage(cfg *Config) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "postgres":
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
		return storage.NewPostgresStorage(cfg.PostgresURL)
	case "mongo":
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI environment variable not set")
		}
		return storage.NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase)
	case "redis":
		return storage.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
