package storagebuilder

import (
	"context"
	"fmt"
	"time"

	"github.com/lomoval/strikeboard/internal/storage"
	litestorage "github.com/lomoval/strikeboard/internal/storage/lite"
	memorystorage "github.com/lomoval/strikeboard/internal/storage/memory"
	sqlstorage "github.com/lomoval/strikeboard/internal/storage/sql"
)

type Config struct {
	StorageType string
	Database    sqlstorage.Config
	Lite        litestorage.Config
}

func New(config Config) (storage.Storage, error) {
	var s storage.Storage
	switch config.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "sql":
		s = sqlstorage.New(config.Database)
	case "lite":
		s = litestorage.New(config.Lite)
	default:
		return nil, fmt.Errorf("unknown storage type %s", config.StorageType)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s storage: %w", config.StorageType, err)
	}
	return s, nil
}
