package database

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"comanda-system/config"
	"comanda-system/internal/database/models"
)

// SeedAdmin creates the first administrator account on an empty database so
// the API is reachable after a fresh deploy. No-op when any admin exists or
// when no seed password was configured.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := db.Model(&models.Employee{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Employee{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: string(hash),
		Name:     "Administrador",
		Cedula:   "0",
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded administrator account %q", cfg.Username)
	return nil
}
