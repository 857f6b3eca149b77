package services

import (
	"errors"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/pkg/auth"
	"github.com/agrovia/agrovia/pkg/validate"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so
// the response never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginInput is the dashboard login form.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthService struct {
	repo *repositories.UserRepository
}

func NewAuthService(repo *repositories.UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Login checks the credentials and mints a JWT for the dashboard.
func (s *AuthService) Login(in LoginInput) (string, models.User, map[string]string, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return "", models.User{}, errs, nil
	}

	user, err := s.repo.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", models.User{}, nil, ErrInvalidCredentials
		}
		return "", models.User{}, nil, err
	}

	if !auth.CheckPassword(user.Password, in.Password) {
		return "", models.User{}, nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", models.User{}, nil, err
	}
	return token, user, nil, nil
}
