package main

import (
	"context"
	"encoding/base64"
	"log"
	"time"

	"photovault/internal/database"
	"photovault/internal/domain"
	"photovault/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 1x1 transparent PNG, the smallest payload that still sniffs as image/png.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func main() {
	db, err := database.Connect("photovault.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.Image{},
		&domain.ArchivedImage{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	userRepo := repository.NewUserRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM deleted_images")
	db.Exec("DELETE FROM images")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating demo user...")

	demoHash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	demo := &domain.User{
		Email:        "demo@photovault.local",
		PasswordHash: string(demoHash),
		Name:         "Demo User",
	}
	if err := userRepo.Create(context.Background(), demo); err != nil {
		log.Fatal("seed user failed:", err)
	}

	// ================== IMAGES ==================
	log.Println("Creating sample images...")

	png, err := base64.StdEncoding.DecodeString(tinyPNG)
	if err != nil {
		log.Fatal(err)
	}

	now := time.Now()
	names := []string{"sunrise.png", "holiday.png", "family.png"}
	for i, name := range names {
		img := domain.Image{
			Name:       name,
			Data:       png,
			OwnerID:    demo.Email,
			UploadedAt: now.Add(time.Duration(i) * time.Minute),
		}
		if err := db.Create(&img).Error; err != nil {
			log.Fatal("seed image failed:", err)
		}
	}

	// One pre-archived image so the trash view is not empty.
	arch := domain.ArchivedImage{
		ID:         1000,
		Name:       "old_scan.png",
		Data:       png,
		OwnerID:    demo.Email,
		UploadedAt: now.Add(-24 * time.Hour),
		DeletedAt:  now.Add(-time.Hour),
	}
	if err := db.Create(&arch).Error; err != nil {
		log.Fatal("seed archived image failed:", err)
	}

	log.Println("Seed complete: demo@photovault.local / demo123")
}
