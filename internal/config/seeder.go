package config

import (
	"log"

	"gorm.io/gorm"

	"libraease/internal/adapters/persistence/models"
	"libraease/internal/core/domain"
	"libraease/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db  *gorm.DB
	cfg *Config
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config) *Seeder {
	return &Seeder{db: db, cfg: cfg}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedRoles(); err != nil {
		return err
	}

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if s.cfg.IsDev() {
		if err := s.seedSampleBooks(); err != nil {
			log.Printf("⚠️ Book seeder skipped: %v", err)
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedRoles inserts the closed role set. Roles are immutable reference
// data; existing rows are left untouched.
func (s *Seeder) seedRoles() error {
	for _, name := range domain.AllRoles() {
		var count int64
		s.db.Model(&models.Role{}).Where("name = ?", name.String()).Count(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Create(&models.Role{Name: name.String()}).Error; err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser seeds the default admin user.
// Development only; in production create admins through a secure process.
func (s *Seeder) seedAdminUser() error {
	var adminRole models.Role
	if err := s.db.Where("name = ?", domain.RoleAdmin.String()).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	s.db.Model(&models.User{}).Where("role_id = ?", adminRole.ID).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        "admin@libraease.local",
		PasswordHash: hashedPassword,
		RoleID:       adminRole.ID,
		IsActive:     true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user seeded: %s", admin.Email)
	return nil
}

// seedSampleBooks seeds a handful of catalog entries for development
func (s *Seeder) seedSampleBooks() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil
	}

	books := []models.Book{
		{Name: "The Go Programming Language", ISBN: "9780134190440", Stock: 3},
		{Name: "Designing Data-Intensive Applications", ISBN: "9781449373320", Stock: 2},
		{Name: "Clean Architecture", ISBN: "9780134494166", Stock: 4},
	}
	for i := range books {
		if err := s.db.Create(&books[i]).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Sample books seeded: %d", len(books))
	return nil
}
