package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lomoval/strikeboard/internal/logger"
	"github.com/lomoval/strikeboard/internal/rabbit"
	log "github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

var (
	configFile string
	envFile    string
)

func init() {
	flag.StringVar(&configFile, "config", "./configs/sender_config.yaml", "Path to configuration file")
	flag.StringVar(&envFile, "env", ".env", "Path to env file, ignored when missing")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	config, err := NewConfig(configFile, envFile)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	err = logger.PrepareLogger(config.Logger)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}

	r := rabbit.New(config.Rabbit)
	if err := r.Connect(); err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	defer r.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	err = r.Consume(ctx, func(msg amqp.Delivery) {
		m, err := rabbit.ParseMessage(msg.Body)
		if err != nil {
			log.Errorf("skipping message: %v", err)
			return
		}
		entry := log.WithField("event", m.EventID).WithField("title", m.Title).
			WithField("location", m.Location).WithField("time", m.Time)
		switch m.Kind {
		case rabbit.KindShare:
			entry.Info("event shared")
		case rabbit.KindStatus:
			entry.WithField("status", m.Status).Info("event status changed")
		}
	})
	if err != nil {
		log.Errorf("failed to consume: %v", err)
	}
}
