package models

import (
	"fmt"

	"github.com/nexlayer/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig, debug bool) error {
	db, err := Open(cfg, debug)
	if err != nil {
		return err
	}
	DB = db
	return nil
}

// Open connects to the configured database without touching the global handle.
func Open(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	logMode := logger.Warn
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ClientRequest{},
		&Project{},
		&Report{},
		&Task{},
		&Message{},
		&File{},
		&SecurityLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedTeam creates the configured team members that are not yet present.
// Existing users are left untouched so out-of-band role changes survive restarts.
// CEO entries are created before everyone else.
func SeedTeam(db *gorm.DB, team []config.TeamMember, passwordHash string) (int, error) {
	ordered := make([]config.TeamMember, 0, len(team))
	for _, m := range team {
		if m.Role == "CEO" {
			ordered = append(ordered, m)
		}
	}
	for _, m := range team {
		if m.Role != "CEO" {
			ordered = append(ordered, m)
		}
	}

	created := 0
	for _, m := range ordered {
		var count int64
		if err := db.Model(&User{}).Where("email = ?", m.Email).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		user := User{
			Email:        m.Email,
			DisplayName:  m.Name,
			Role:         m.Role,
			Title:        m.Title,
			PasswordHash: passwordHash,
		}
		if err := db.Create(&user).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
