package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lomoval/strikeboard/internal/app"
	"github.com/lomoval/strikeboard/internal/logger"
	"github.com/lomoval/strikeboard/internal/metrics"
	"github.com/lomoval/strikeboard/internal/rabbit"
	internalgrpc "github.com/lomoval/strikeboard/internal/server/grpc"
	internalhttp "github.com/lomoval/strikeboard/internal/server/http"
	"github.com/lomoval/strikeboard/internal/storagebuilder"
	log "github.com/sirupsen/logrus"
)

var (
	configFile string
	envFile    string
)

func init() {
	flag.StringVar(&configFile, "config", "./configs/config.yaml", "Path to configuration file")
	flag.StringVar(&envFile, "env", ".env", "Path to env file, ignored when missing")
	log.SetFormatter(&log.TextFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.WarnLevel)
}

func main() {
	flag.Parse()

	if flag.Arg(0) == "version" {
		printVersion()
		return
	}

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
	stor, err := storagebuilder.New(config.Storage)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := stor.Close(ctx); err != nil {
			log.Errorf("failed to close storage: %v", err)
		}
	}()

	opts := []app.Option{app.WithRequiredCategory(config.Features.Categories)}
	if config.Rabbit.Enabled {
		r := rabbit.New(config.Rabbit)
		if err := r.Connect(); err != nil {
			log.Errorf("sharing is disabled: %v", err)
		} else {
			defer r.Close()
			opts = append(opts, app.WithSharer(r))
		}
	}
	strikes := app.New(stor, opts...)

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	if err := strikes.Refresh(ctx); err != nil {
		log.Warnf("failed to load events: %v", err)
	}

	m := metrics.New("api")
	httpServer, err := internalhttp.NewServer(config.HTTPServer, strikes, m)
	if err != nil {
		log.Errorf("failed to start %v", err)
		return
	}
	grpcServer := internalgrpc.NewServer(config.GrpcServer, m)
	grpcServer.SetServing(true)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		grpcServer.SetServing(false)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if err := httpServer.Stop(ctx); err != nil {
			log.Error("failed to stop http server: " + err.Error())
		}
		if err := grpcServer.Stop(ctx); err != nil {
			log.Error("failed to stop grpc server: " + err.Error())
		}
	}()

	go func() {
		if err := grpcServer.Start(ctx); err != nil {
			log.Error("failed to start grpc server: " + err.Error())
			cancel()
		}
	}()

	log.Info("strikeboard is running...")

	if err := httpServer.Start(ctx); err != nil {
		log.Error("failed to start http server: " + err.Error())
	}
	cancel()
	<-stopped
}
