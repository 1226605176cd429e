package main

import (
	"context"
	"log"
	"os"
	"time"

	"smap/internal/database"
	"smap/internal/domain"
	"smap/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "smap.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM ticket_lines")
	db.Exec("DELETE FROM tickets")
	db.Exec("DELETE FROM loan_lines")
	db.Exec("DELETE FROM loans")
	db.Exec("DELETE FROM items")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	items := repository.NewItemRepository(db)

	log.Println("Creating users...")
	for _, u := range seedUsers() {
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("user seed failed:", err)
		}
	}

	log.Println("Creating items...")
	for _, it := range seedItems() {
		if err := items.Create(ctx, it); err != nil {
			log.Fatal("item seed failed:", err)
		}
	}

	log.Println("Seed complete. Login with admin / admin123")
}

func seedUsers() []*domain.User {
	return []*domain.User{
		{
			Name:         "System Administrator",
			Username:     "admin",
			Email:        "admin@smap.local",
			PasswordHash: hash("admin123"),
			Role:         domain.RoleAdmin,
			Position:     "Administrator",
			Division:     "IT",
		},
		{
			Name:           "Warehouse Officer",
			Username:       "officer",
			Email:          "officer@smap.local",
			PasswordHash:   hash("officer123"),
			Role:           domain.RoleOfficer,
			EmployeeNumber: "EMP-0002",
			Position:       "Inventory Officer",
			Division:       "General Affairs",
		},
		{
			Name:           "Field Technician",
			Username:       "technician",
			Email:          "technician@smap.local",
			PasswordHash:   hash("borrow123"),
			Role:           domain.RoleBorrower,
			EmployeeNumber: "EMP-0003",
			Position:       "Technician",
			Division:       "Operations",
		},
	}
}

func seedItems() []*domain.Item {
	acquired := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return []*domain.Item{
		{
			Code:      "DRL-001",
			Name:      "Cordless Drill 18V",
			Brand:     "Makita",
			Category:  "Power Tools",
			Warehouse: "Main",
			Location:  "Rack A-1",
			Condition: domain.ConditionGood,
			Status:    domain.ItemAvailable,
		},
		{
			Code:            "GEN-001",
			AssetNumber:     "AST-2024-0101",
			Name:            "Portable Generator 5kVA",
			Brand:           "Honda",
			Category:        "Generators",
			Warehouse:       "Main",
			Location:        "Bay 3",
			Condition:       domain.ConditionGood,
			Status:          domain.ItemAvailable,
			AcquisitionDate: &acquired,
		},
		{
			Code:      "LAD-001",
			Name:      "Extension Ladder 6m",
			Category:  "Access Equipment",
			Warehouse: "Annex",
			Location:  "Wall Rack",
			Condition: domain.ConditionMinorDamage,
			Status:    domain.ItemAvailable,
			Notes:     "Left stabilizer slightly bent",
		},
		{
			Code:      "PRJ-001",
			Name:      "Conference Projector",
			Brand:     "Epson",
			Category:  "Electronics",
			Warehouse: "Main",
			Location:  "Cabinet C-2",
			Condition: domain.ConditionGood,
			Status:    domain.ItemAvailable,
		},
	}
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}
