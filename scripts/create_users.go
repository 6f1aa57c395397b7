// create_users.go creates catalog accounts from the command line.
// Usage: go run scripts/create_users.go -email a@example.com -password secret123 [-name "A"] [-role editor]

//go:build ignore

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/sahilchouksey/curriculum-catalog/config"
	"github.com/sahilchouksey/curriculum-catalog/database"
	"github.com/sahilchouksey/curriculum-catalog/model"
	"github.com/sahilchouksey/curriculum-catalog/utils/auth"
	"github.com/sahilchouksey/curriculum-catalog/utils/logger"
	"gorm.io/gorm"
)

func main() {
	email := flag.String("email", "", "account email (comma separated for several)")
	password := flag.String("password", "", "password shared by the new accounts")
	name := flag.String("name", "Catalog Editor", "display name")
	role := flag.String("role", model.RoleEditor, "editor or admin")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *role != model.RoleEditor && *role != model.RoleAdmin {
		log.Fatalf("invalid role %q", *role)
	}

	if err := config.LoadENV(); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	store, err := database.StartGORM(env, logger.Nop())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()
	db := store.GetDB().(*gorm.DB).WithContext(context.Background())

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal(err)
	}

	for _, addr := range strings.Split(*email, ",") {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" {
			continue
		}

		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", addr).Count(&count).Error; err != nil {
			log.Fatal(err)
		}
		if count > 0 {
			fmt.Printf("%-40s already exists, skipped\n", addr)
			continue
		}

		user := model.User{Email: addr, PasswordHash: hash, Name: *name, Role: *role}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("failed to create user %s: %v", addr, err)
		}
		fmt.Printf("%-40s created (id %d, %s)\n", addr, user.ID, user.Role)
	}
}
