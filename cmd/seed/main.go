package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"rosterup/internal/config"
	"rosterup/internal/db"
	"rosterup/internal/model"
	"rosterup/internal/repository"
	"rosterup/internal/seed"
)

// SeedTenantData is the shape of one tenant entry in the seed file.
type SeedTenantData struct {
	Name      string `json:"name"`
	Subdomain string `json:"subdomain"`
	Active    bool   `json:"active"`
}

// defaultTenants is used when no seed file is given.
var defaultTenants = []SeedTenantData{
	{Name: "Acme Co", Subdomain: "acme-co", Active: true},
	{Name: "Globex", Subdomain: "globex", Active: true},
	{Name: "Initech", Subdomain: "initech", Active: false},
}

func main() {
	file := flag.String("file", "", "path to a JSON file with tenants to seed")
	flag.Parse()

	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Role{}, &model.User{}, &model.Token{}, &model.Tenant{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	roleRepo := repository.NewRoleRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	if err := seed.Run(ctx, cfg, roleRepo, userRepo); err != nil {
		log.Fatalf("Failed to seed reference data: %v", err)
	}
	log.Println("Reference data seeded")

	tenants := defaultTenants
	if *file != "" {
		tenants, err = readTenantFile(*file)
		if err != nil {
			log.Fatalf("Failed to read seed file: %v", err)
		}
		log.Printf("Read %d tenants from %s", len(tenants), *file)
	}

	tenantRepo := repository.NewTenantRepository(gormDB)
	created, skipped := 0, 0
	for _, item := range tenants {
		if _, err := tenantRepo.FindBySubdomain(ctx, item.Subdomain); err == nil {
			skipped++
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to check tenant %s: %v", item.Subdomain, err)
		}

		tenant := &model.Tenant{
			Name:      item.Name,
			Subdomain: item.Subdomain,
			Active:    item.Active,
		}
		if err := tenantRepo.Create(ctx, tenant); err != nil {
			log.Fatalf("Failed to create tenant %s: %v", item.Subdomain, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New tenants created: %d", created)
	log.Printf("  - Existing tenants skipped: %d", skipped)
}

func readTenantFile(path string) ([]SeedTenantData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tenants []SeedTenantData
	if err := json.Unmarshal(data, &tenants); err != nil {
		return nil, err
	}
	return tenants, nil
}
