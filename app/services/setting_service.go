package services

import (
	"errors"

	"github.com/agrovia/agrovia/app/repositories"
)

// ErrEmptySettingKey rejects settings payloads containing a blank key.
var ErrEmptySettingKey = errors.New("setting keys must not be empty")

// SettingService reads and writes dashboard-editable site settings.
type SettingService struct {
	repo *repositories.SettingRepository
}

func NewSettingService(repo *repositories.SettingRepository) *SettingService {
	return &SettingService{repo: repo}
}

func (s *SettingService) All() (map[string]string, error) {
	return s.repo.All()
}

// Update upserts every pair in values. Keys are upserted one by one; a
// failure stops the batch and reports which keys made it.
func (s *SettingService) Update(values map[string]string) error {
	for key := range values {
		if key == "" {
			return ErrEmptySettingKey
		}
	}
	for key, value := range values {
		if err := s.repo.Upsert(key, value); err != nil {
			return err
		}
	}
	return nil
}
