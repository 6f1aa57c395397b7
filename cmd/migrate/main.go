package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
)

func main() {
	mode := flag.String("mode", "gorm", "schema source: gorm (AutoMigrate) or sql (explicit DDL over lib/pq)")
	flag.Parse()

	if err := run(*mode); err != nil {
		fmt.Fprintln(os.Stderr, "migration failed:", err)
		os.Exit(1)
	}
}

func run(mode string) error {
	if err := config.LoadENV(); err != nil && !os.IsNotExist(err) {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(env.GO_ENV)
	if err != nil {
		return err
	}
	defer log.Sync()

	switch mode {
	case "gorm":
		store, err := database.StartGORM(env, log)
		if err != nil {
			return err
		}
		defer store.Close()
		return migrate(store, log)

	case "sql":
		store, err := database.Start(env, log)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := migrate(store, log); err != nil {
			return err
		}

		counts, err := store.TableCounts(context.Background())
		if err != nil {
			return err
		}
		for table, n := range counts {
			log.Info("table ready", "table", table, "rows", n)
		}
		return nil
	}
	return fmt.Errorf("unknown mode %q", mode)
}

func migrate(store database.Storage, log *logger.Logger) error {
	if err := store.Init(); err != nil {
		return err
	}
	if err := store.HealthCheck(); err != nil {
		return err
	}
	log.Info("schema is up to date")
	return nil
}
