package main

import (
	"github.com/lomoval/strikeboard/internal/config"
	"github.com/lomoval/strikeboard/internal/logger"
	"github.com/lomoval/strikeboard/internal/rabbit"
)

type Config struct {
	Logger logger.Config
	Rabbit rabbit.Config
}

func NewConfig(configFile, envFile string) (Config, error) {
	c := Config{}
	err := config.Load(configFile, envFile, map[string]interface{}{
		"rabbit.host":     "127.0.0.1",
		"rabbit.port":     "5672",
		"rabbit.user":     "user",
		"rabbit.password": "pass",
		"rabbit.queue":    "strikeboard.notify",
		"logger.level":    "INFO",
	}, &c)
	return c, err
}
