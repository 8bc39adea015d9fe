package main

import (
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"clinicAppointments/internal/config"
	"clinicAppointments/internal/db"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	path := flag.String("db", "", "database path (defaults to DB_PATH)")
	flag.Parse()

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if *path != "" {
		cfg.Database.Path = *path
	}

	// Open applies every pending migration.
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		logrus.Fatalf("open db: %v", err)
	}
	defer d.Close()

	if *down {
		if err := db.RollbackLast(d); err != nil {
			logrus.Fatalf("rollback: %v", err)
		}
		logrus.Info("rolled back last migration")
	}

	versions, err := db.Applied(d)
	if err != nil {
		logrus.Fatalf("list migrations: %v", err)
	}
	fmt.Printf("applied migrations: %v\n", versions)
}
