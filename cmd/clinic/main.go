package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/bootstrap"
	"clinicAppointments/internal/cache"
	"clinicAppointments/internal/config"
	"clinicAppointments/internal/console"
	"clinicAppointments/internal/db"
	"clinicAppointments/internal/dispatch"
	"clinicAppointments/internal/logging"
	"clinicAppointments/internal/service"
)

func main() {
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log, closeLog, err := logging.Setup(cfg.Log)
	if err != nil {
		logrus.Fatalf("setup logging: %v", err)
	}
	defer closeLog.Close()

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	tasks := dispatch.New(cfg.Dispatch.Workers, log)
	tasks.Start(ctx)
	c := console.New(service.New(d, opts), tasks, os.Stdout)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	fmt.Println(`clinic console, type "help" for commands`)
	running := true
	for running {
		select {
		case line, ok := <-lines:
			if !ok || !c.Handle(line) {
				running = false
			}
		case fn := <-tasks.Outcomes():
			fn()
		case <-ctx.Done():
			running = false
		}
	}

	tasks.Close()
	for fn := range tasks.Outcomes() {
		fn()
	}
}
