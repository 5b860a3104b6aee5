//go:build ignore

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/apexcoatings/backoffice/internal/auth"
	"github.com/apexcoatings/backoffice/internal/database"
	"github.com/apexcoatings/backoffice/internal/database/models"
	"github.com/apexcoatings/backoffice/pkg/config"
	"github.com/apexcoatings/backoffice/pkg/util"
)

// Seeds the service catalog and a first admin account. Run with:
//
//	go run scripts/seed.go
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	catalog := []models.Service{
		{Name: "Powder Coat - Single Color", Category: models.ServiceCategoryPowder, Price: 150},
		{Name: "Powder Coat - Two Tone", Category: models.ServiceCategoryPowder, Price: 225},
		{Name: "Powder Coat - Wheels (set of 4)", Category: models.ServiceCategoryPowder, Price: 400},
		{Name: "Ceramic Coat - Headers", Category: models.ServiceCategoryCeramic, Price: 250},
		{Name: "Ceramic Coat - Exhaust Manifold", Category: models.ServiceCategoryCeramic, Price: 180},
		{Name: "Ceramic Coat - Turbo Housing", Category: models.ServiceCategoryCeramic, Price: 200},
		{Name: "Media Blasting", Category: models.ServiceCategoryPrep, Price: 75},
		{Name: "Chemical Strip", Category: models.ServiceCategoryPrep, Price: 90},
	}
	for _, svc := range catalog {
		var existing models.Service
		err := db.Where("name = ?", svc.Name).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&svc).Error; err != nil {
				log.Fatalf("failed to seed service %q: %v", svc.Name, err)
			}
			fmt.Printf("seeded service: %s ($%.2f)\n", svc.Name, svc.Price)
		}
	}

	username := os.Getenv("SEED_ADMIN_USERNAME")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if username == "" {
		username = "shopadmin"
	}
	if password == "" {
		password = "changeme123"
	}

	authService := auth.NewService(db, cfg.LocalAdmin.Password)
	user, err := authService.CreateLocal(context.Background(), username, password, "Shop Admin", models.RoleAdmin)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			fmt.Printf("admin user %q already exists, skipping\n", username)
			return
		}
		log.Fatalf("failed to create admin user: %v", err)
	}

	fmt.Printf("created admin user %q (id %s)\n", username, user.ID)
}
