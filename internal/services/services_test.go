package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ceo    = &authz.Principal{ID: "u-ceo", Email: "ceo@nexlayer.dev", Name: "Boss", Role: authz.RoleCEO}
	member = &authz.Principal{ID: "u-mem", Email: "dev@nexlayer.dev", Role: authz.RoleMember, Title: "CTO"}
	other  = &authz.Principal{ID: "u-oth", Email: "ops@nexlayer.dev", Role: authz.RoleMember}
	client = &authz.Principal{ID: "u-cli", Email: "client@acme.test", Role: authz.RoleClient}
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDBWithDSN(t, filepath.Join(t.TempDir(), "test.db"))
}

// setupConcurrentTestDB takes the write lock at BEGIN so concurrent
// transactions queue on the busy timeout instead of failing.
func setupConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDBWithDSN(t, filepath.Join(t.TempDir(), "test.db")+"?_txlock=immediate&_busy_timeout=10000")
}

func setupTestDBWithDSN(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := models.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    dsn,
	}, false)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, p := range []*authz.Principal{ceo, member, other, client} {
		if err := db.Create(&models.User{ID: p.ID, Email: p.Email, Role: string(p.Role), Title: p.Title}).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return db
}

func seedProject(t *testing.T, db *gorm.DB, title string, members []string, createdAt time.Time) *models.Project {
	t.Helper()
	p := &models.Project{
		ProjectTitle:    title,
		AssignedMembers: datatypes.JSONSlice[string](members),
		CreatedAt:       createdAt,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func loadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		t.Fatalf("load user %s: %v", id, err)
	}
	return &u
}

func expectCode(t *testing.T, err error, code string) {
	t.Helper()
	if !response.IsCode(err, code) {
		t.Fatalf("error = %v, expected code %q", err, code)
	}
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	return n
}

var bg = context.Background()
