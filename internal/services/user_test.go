package services

import (
	"testing"

	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/utils"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/datatypes"
)

func TestUserService_ListTeam(t *testing.T) {
	svc := NewUserService(setupTestDB(t))

	team, err := svc.ListTeam(bg, ceo)
	if err != nil {
		t.Fatal(err)
	}
	if len(team) != 4 {
		t.Fatalf("team size = %d, expected 4", len(team))
	}
	for _, m := range team {
		if m.Name == "" || m.Status == "" {
			t.Errorf("incomplete member view %+v", m)
		}
	}

	_, err = svc.ListTeam(bg, member)
	expectCode(t, err, response.CodePermissionDenied)
}

func TestUserService_SetRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(db)

	user, err := svc.SetRole(bg, member.Email, "Marketing", "")
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != "Member" || user.Title != "Marketing" {
		t.Errorf("role/title = %q/%q", user.Role, user.Title)
	}

	if _, err := svc.SetRole(bg, member.Email, "CEO", ""); err != nil {
		t.Fatal(err)
	}
	if u := loadUser(t, db, member.ID); u.Role != "CEO" {
		t.Errorf("stored role = %q", u.Role)
	}

	_, err = svc.SetRole(bg, "nobody@x", "CEO", "")
	expectCode(t, err, response.CodeNotFound)

	_, err = svc.SetRole(bg, member.Email, "", "")
	expectCode(t, err, response.CodeInvalidArgument)
}

func TestUserService_Me(t *testing.T) {
	db := setupTestDB(t)
	db.Model(&models.User{ID: member.ID}).Update("assigned_projects", datatypes.JSONSlice[string]{"p1"})
	svc := NewUserService(db)

	profile, err := svc.Me(bg, member)
	if err != nil {
		t.Fatal(err)
	}
	if profile.ID != member.ID || len(profile.AssignedProjects) != 1 {
		t.Errorf("profile = %+v", profile)
	}

	_, err = svc.Me(bg, nil)
	expectCode(t, err, response.CodeUnauthenticated)
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	utils.SetJWTSecret("login-test")
	hash, _ := utils.HashPassword("s3cret")
	db.Model(&models.User{ID: ceo.ID}).Update("password_hash", hash)

	svc := NewAuthService(db, &config.JWTConfig{ExpireHour: 2})
	result, err := svc.Login(bg, &LoginRequest{Email: ceo.Email, Password: "s3cret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := utils.ParseToken(result.Token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != ceo.ID || claims.Role != "CEO" {
		t.Errorf("claims = %+v", claims)
	}

	_, err = svc.Login(bg, &LoginRequest{Email: ceo.Email, Password: "wrong"})
	expectCode(t, err, response.CodeUnauthenticated)

	_, err = svc.Login(bg, &LoginRequest{Email: member.Email, Password: ""})
	expectCode(t, err, response.CodeUnauthenticated)

	_, err = svc.Login(bg, &LoginRequest{Email: "ghost@x", Password: "x"})
	expectCode(t, err, response.CodeUnauthenticated)
}
