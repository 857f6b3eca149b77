package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/auth"
)

func seedAdmin(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	hash, err := auth.HashPassword("correct-horse-battery")
	require.NoError(t, err)

	user := models.User{Name: "Admin", Email: "admin@agrovia.example", Password: hash, Role: "admin"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestLoginIssuesToken(t *testing.T) {
	db := newTestDB(t)
	user := seedAdmin(t, db)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	token, got, errs, err := svc.Login(services.LoginInput{
		Email:    "admin@agrovia.example",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	db := newTestDB(t)
	seedAdmin(t, db)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	_, _, errs, err := svc.Login(services.LoginInput{
		Email:    "admin@agrovia.example",
		Password: "wrong-password",
	})
	require.Empty(t, errs)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginUnknownEmailGivesSameError(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	_, _, errs, err := svc.Login(services.LoginInput{
		Email:    "nobody@agrovia.example",
		Password: "whatever-password",
	})
	require.Empty(t, errs)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestLoginValidatesInput(t *testing.T) {
	db := newTestDB(t)
	svc := services.NewAuthService(repositories.NewUserRepository(db))

	_, _, errs, err := svc.Login(services.LoginInput{Email: "bad", Password: "short"})
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}
