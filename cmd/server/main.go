package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/bootstrap"
	"clinicAppointments/internal/cache"
	"clinicAppointments/internal/config"
	"clinicAppointments/internal/db"
	grpcserver "clinicAppointments/internal/grpc"
	"clinicAppointments/internal/logging"
	"clinicAppointments/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}
	defer closeLog.Close()
	log.Infof("Configuration loaded: %v", cfg)

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WithError(err).Error("close db")
		}
	}()

	ctx := context.Background()
	if _, err := bootstrap.Run(ctx, d, cfg.Admin, log); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	opts := service.Options{Logger: log, AllowLegacyPasswords: cfg.Auth.AllowLegacyPasswords}
	directory, err := cache.Connect(ctx, cfg.Cache)
	if err != nil {
		log.WithError(err).Warn("doctor cache disabled")
	} else if directory != nil {
		defer directory.Close()
		opts.Cache = directory
	}
	svc := service.New(d, opts)

	shutdown, err := grpcserver.StartGRPC(cfg, svc, d, log)
	if err != nil {
		log.Fatalf("start grpc: %v", err)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
