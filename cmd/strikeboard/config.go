package main

import (
	"github.com/lomoval/strikeboard/internal/config"
	"github.com/lomoval/strikeboard/internal/logger"
	"github.com/lomoval/strikeboard/internal/rabbit"
	internalgrpc "github.com/lomoval/strikeboard/internal/server/grpc"
	internalhttp "github.com/lomoval/strikeboard/internal/server/http"
	"github.com/lomoval/strikeboard/internal/storagebuilder"
)

type FeaturesConfig struct {
	// Categories makes a category mandatory for new events.
	Categories bool
}

type ListingConfig struct {
	Locale string
}

type Config struct {
	HTTPServer internalhttp.Config
	GrpcServer internalgrpc.Config
	Logger     logger.Config
	Storage    storagebuilder.Config
	Rabbit     rabbit.Config
	Features   FeaturesConfig
	Listing    ListingConfig
}

func NewConfig(configFile, envFile string) (Config, error) {
	c := Config{}
	err := config.Load(configFile, envFile, map[string]interface{}{
		"httpServer.host":     "127.0.0.1",
		"httpServer.port":     "8005",
		"grpcServer.host":     "127.0.0.1",
		"grpcServer.port":     "8006",
		"logger.level":        "WARN",
		"logger.format":       "text",
		"storage.storageType": "memory",
		"rabbit.enabled":      false,
		"rabbit.host":         "127.0.0.1",
		"rabbit.port":         "5672",
		"rabbit.queue":        "strikeboard.notify",
		"features.categories": false,
	}, &c)
	if err != nil {
		return Config{}, err
	}
	c.HTTPServer.Locale = c.Listing.Locale
	return c, nil
}
