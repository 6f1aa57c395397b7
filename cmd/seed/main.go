package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"gorm.io/gorm"
)

func main() {
	catalogPath := flag.String("catalog", "", "YAML catalog file (defaults to CATALOG_SEED_FILE)")
	skipAdmin := flag.Bool("skip-admin", false, "do not create the admin user")
	flag.Parse()

	if err := run(*catalogPath, *skipAdmin); err != nil {
		fmt.Fprintln(os.Stderr, "seeding failed:", err)
		os.Exit(1)
	}
}

func run(catalogPath string, skipAdmin bool) error {
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

	store, err := database.StartGORM(env, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		return err
	}

	seeder := database.NewSeeder(store.GetDB().(*gorm.DB), log)
	ctx := context.Background()

	if !skipAdmin {
		if err := seeder.SeedAdminUser(ctx, env.ADMIN_EMAIL, env.ADMIN_PASSWORD); err != nil {
			return fmt.Errorf("admin user: %w", err)
		}
	}

	if catalogPath == "" {
		catalogPath = env.CATALOG_SEED_FILE
	}
	if catalogPath == "" {
		log.Info("no catalog file given, skipping catalog")
		return nil
	}

	catalog, err := database.LoadCatalog(catalogPath)
	if err != nil {
		return err
	}
	if _, err := seeder.SeedCatalog(ctx, catalog); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	return nil
}
