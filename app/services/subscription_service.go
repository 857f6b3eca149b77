package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/pkg/orm"
	"github.com/agrovia/agrovia/pkg/validate"
)

// ErrAlreadySubscribed is returned when the email or the client address
// already has a subscription.
var ErrAlreadySubscribed = errors.New("already subscribed")

// SubscriptionInput is one newsletter signup.
type SubscriptionInput struct {
	Email string `json:"email" validate:"required,email"`
}

type SubscriptionService struct {
	repo *repositories.SubscriptionRepository
}

func NewSubscriptionService(repo *repositories.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// Subscribe records a signup, deduplicated against both the email and the
// client IP. Each row gets an opaque unsubscribe token.
func (s *SubscriptionService) Subscribe(in SubscriptionInput, ip string) (models.Subscription, map[string]string, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Subscription{}, errs, nil
	}

	exists, err := s.repo.Exists(in.Email, ip)
	if err != nil {
		return models.Subscription{}, nil, err
	}
	if exists {
		return models.Subscription{}, nil, ErrAlreadySubscribed
	}

	sub := models.Subscription{
		Email: in.Email,
		IP:    ip,
		Token: uuid.NewString(),
	}
	if err := s.repo.Create(&sub); err != nil {
		return models.Subscription{}, nil, err
	}
	return sub, nil, nil
}

// Unsubscribe removes the subscription matching the token.
func (s *SubscriptionService) Unsubscribe(token string) error {
	sub, err := s.repo.FindByToken(token)
	if err != nil {
		return err
	}
	return s.repo.Delete(sub.ID)
}

func (s *SubscriptionService) List(page, limit int) ([]models.Subscription, orm.Pagination, error) {
	return s.repo.List(page, limit)
}
