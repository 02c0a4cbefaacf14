package config

import (
	"log"
	"os"

	"shaghaf-backend/models"

	"github.com/google/uuid"
)

// SeedData is the explicit startup state for a fresh database. It is
// supplied by the host process instead of living as ambient defaults
// inside the storage layer.
type SeedData struct {
	BranchName    string
	BranchAddress string
	OwnerName     string
	OwnerEmail    string
	OwnerPassword string
}

// DefaultSeed reads the seed account from the environment.
func DefaultSeed() SeedData {
	return SeedData{
		BranchName:    getenv("SEED_BRANCH_NAME", "Main Branch"),
		BranchAddress: os.Getenv("SEED_BRANCH_ADDRESS"),
		OwnerName:     getenv("SEED_OWNER_NAME", "Owner"),
		OwnerEmail:    os.Getenv("SEED_OWNER_EMAIL"),
		OwnerPassword: os.Getenv("SEED_OWNER_PASSWORD"),
	}
}

// Seed creates the first branch and owner account when the users table is
// empty. It is a no-op on an already-populated database.
func Seed(data SeedData) {
	var count int64
	if err := DB.Model(&models.User{}).Count(&count).Error; err != nil {
		log.Printf("Seed check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}
	if data.OwnerEmail == "" || data.OwnerPassword == "" {
		log.Println("Empty database and no SEED_OWNER_EMAIL/SEED_OWNER_PASSWORD set; skipping seed")
		return
	}

	branch := models.Branch{
		ID:      uuid.New(),
		Name:    data.BranchName,
		Address: data.BranchAddress,
	}
	if err := DB.Create(&branch).Error; err != nil {
		log.Printf("Failed to seed branch: %v", err)
		return
	}

	owner := models.User{
		Email:    data.OwnerEmail,
		Password: data.OwnerPassword, // hashed in BeforeCreate
		Name:     data.OwnerName,
		Role:     "owner",
		BranchID: branch.ID,
	}
	if err := DB.Create(&owner).Error; err != nil {
		log.Printf("Failed to seed owner account: %v", err)
		return
	}

	log.Printf("Seeded branch %q with owner %s", branch.Name, owner.Email)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
