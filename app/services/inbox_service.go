package services

import (
	"github.com/agrovia/agrovia/app/jobs"
	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/orm"
	"github.com/agrovia/agrovia/pkg/queue"
	"github.com/agrovia/agrovia/pkg/validate"
)

// MessageInput is one public contact-form submission.
type MessageInput struct {
	Name    string `form:"name"    json:"name"    validate:"required,max=255"`
	Email   string `form:"email"   json:"email"   validate:"required,email"`
	Phone   string `form:"phone"   json:"phone"   validate:"nullable,max=50"`
	Subject string `form:"subject" json:"subject" validate:"nullable,max=255"`
	Body    string `form:"body"    json:"body"    validate:"required,max=10000"`
}

// ReplyInput is an admin reply on a message thread.
type ReplyInput struct {
	Body string `json:"body" validate:"required,max=10000"`
}

type InboxService struct {
	repo *repositories.MessageRepository
}

func NewInboxService(repo *repositories.MessageRepository) *InboxService {
	return &InboxService{repo: repo}
}

// Submit stores a contact message. New messages always start unread.
func (s *InboxService) Submit(in MessageInput) (models.Message, map[string]string, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Message{}, errs, nil
	}

	m := models.Message{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Body:    in.Body,
		Status:  models.MessageStatusUnread,
	}
	if err := s.repo.Create(&m); err != nil {
		return models.Message{}, nil, err
	}
	return m, nil, nil
}

func (s *InboxService) List(page, limit int) ([]models.Message, orm.Pagination, error) {
	return s.repo.List(page, limit)
}

// Get loads a thread and, on first open, flips it to read.
func (s *InboxService) Get(id uint) (models.Message, error) {
	m, err := s.repo.FindByID(id)
	if err != nil {
		return models.Message{}, err
	}
	if m.Status == models.MessageStatusUnread {
		m.Status = models.MessageStatusRead
		if err := s.repo.Update(&m); err != nil {
			return models.Message{}, err
		}
	}
	return m, nil
}

// Reply appends a staff reply to the thread, marks it read and queues the
// customer notification.
func (s *InboxService) Reply(id uint, in ReplyInput) (models.Reply, map[string]string, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Reply{}, errs, nil
	}

	m, err := s.repo.FindByID(id)
	if err != nil {
		return models.Reply{}, nil, err
	}

	reply := models.Reply{MessageID: m.ID, Body: in.Body, FromAdmin: true}
	if err := s.repo.AddReply(&reply); err != nil {
		return models.Reply{}, nil, err
	}

	if m.Status != models.MessageStatusRead {
		m.Status = models.MessageStatusRead
		if err := s.repo.Update(&m); err != nil {
			return models.Reply{}, nil, err
		}
	}

	if err := queue.Dispatch(jobs.TypeReplyNotify, &jobs.ReplyNotifyJob{MessageID: m.ID, ReplyID: reply.ID}); err != nil {
		logger.Error("inbox: dispatch reply notify", "message_id", m.ID, "error", err)
	}
	return reply, nil, nil
}

func (s *InboxService) Delete(id uint) error {
	if _, err := s.repo.FindByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
