package main

import (
	"github.com/lomoval/strikeboard/internal/config"
	"github.com/lomoval/strikeboard/internal/logger"
	"github.com/lomoval/strikeboard/internal/rabbit"
	"github.com/lomoval/strikeboard/internal/scheduler"
	"github.com/lomoval/strikeboard/internal/storagebuilder"
)

type Config struct {
	Logger    logger.Config
	Rabbit    rabbit.Config
	Storage   storagebuilder.Config
	Scheduler scheduler.Config
}

func NewConfig(configFile, envFile string) (Config, error) {
	c := Config{}
	err := config.Load(configFile, envFile, map[string]interface{}{
		"rabbit.host":         "127.0.0.1",
		"rabbit.port":         "5672",
		"rabbit.user":         "user",
		"rabbit.password":     "pass",
		"rabbit.queue":        "strikeboard.notify",
		"logger.level":        "WARN",
		"storage.storageType": "memory",
		"scheduler.spec":      "@every 1m",
	}, &c)
	return c, err
}
