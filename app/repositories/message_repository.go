package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/pkg/orm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// FindByID loads a message together with its replies, oldest reply first.
func (r *MessageRepository) FindByID(id uint) (models.Message, error) {
	var m models.Message
	err := r.db.Preload("Replies", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return m, ErrNotFound
	}
	return m, err
}

func (r *MessageRepository) List(page, limit int) ([]models.Message, orm.Pagination, error) {
	var messages []models.Message
	p, err := orm.Paginate(r.db.Model(&models.Message{}), &messages, page, limit)
	return messages, p, err
}

func (r *MessageRepository) Update(m *models.Message) error {
	return r.db.Save(m).Error
}

func (r *MessageRepository) Delete(id uint) error {
	return r.db.Select("Replies").Delete(&models.Message{Model: gorm.Model{ID: id}}).Error
}

// AddReply persists a reply on a message.
func (r *MessageRepository) AddReply(reply *models.Reply) error {
	return r.db.Create(reply).Error
}
