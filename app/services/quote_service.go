// Package services holds the business rules. Controllers translate HTTP
// to service calls; services own validation, state transitions and the
// coordination between the database, storage and the queue.
package services

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/agrovia/agrovia/app/jobs"
	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/orm"
	"github.com/agrovia/agrovia/pkg/queue"
	"github.com/agrovia/agrovia/pkg/upload"
	"github.com/agrovia/agrovia/pkg/validate"
)

// ErrInvalidTransition is returned when a status change would move a
// quote backwards in its lifecycle.
var ErrInvalidTransition = errors.New("status cannot move backwards")

// QuoteInput carries one quote submission. The same input (and the same
// rules) serves both the public form and admin edits.
type QuoteInput struct {
	FullName string `form:"full_name" json:"full_name" validate:"required,max=255"`
	Email    string `form:"email"     json:"email"     validate:"required,email"`
	Phone    string `form:"phone"     json:"phone"     validate:"nullable,max=50"`
	Company  string `form:"company"   json:"company"   validate:"nullable,max=255"`
	Website  string `form:"website"   json:"website"   validate:"nullable,url"`

	ProductName      string   `form:"product_name"      json:"product_name"      validate:"required,max=255"`
	ProductType      string   `form:"product_type"      json:"product_type"      validate:"nullable,max=255"`
	CultivationTypes []string `form:"cultivation_types" json:"cultivation_types" validate:"required,subset=organic|conventional"`
	ProcessingMethod string   `form:"processing_method" json:"processing_method" validate:"nullable,in=raw|sun_dried|machine_dried|roasted|ground"`

	Unit         string `form:"unit"          json:"unit"          validate:"nullable,in=kg|mt|lb|container"`
	Volume       string `form:"volume"        json:"volume"        validate:"nullable,max=100"`
	PurchaseType string `form:"purchase_type" json:"purchase_type" validate:"nullable,in=one_time|annual|not_sure"`

	DeliveryAddress   string `form:"delivery_address"   json:"delivery_address"   validate:"nullable"`
	Incoterm          string `form:"incoterm"           json:"incoterm"           validate:"nullable,in=EXW|FOB|CFR|CIF|DAP|DDP"`
	DeliveryDate      string `form:"delivery_date"      json:"delivery_date"      validate:"required,date"`
	DeliveryFrequency string `form:"delivery_frequency" json:"delivery_frequency" validate:"nullable,in=one_time|weekly|monthly|quarterly|annually"`

	Notes string `form:"notes" json:"notes" validate:"nullable,max=5000"`
}

type QuoteService struct {
	repo   *repositories.QuoteRepository
	intake *upload.Intake
}

func NewQuoteService(repo *repositories.QuoteRepository, intake *upload.Intake) *QuoteService {
	return &QuoteService{repo: repo, intake: intake}
}

// Submit handles a public quote request: validate, store the attachments,
// persist the row, then queue the sales notification. Validation failure
// leaves no row and no files behind; a storage failure likewise rolls the
// whole submission back.
func (s *QuoteService) Submit(in QuoteInput, files []*multipart.FileHeader) (models.Quote, map[string]string, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Quote{}, errs, nil
	}

	deliveryDate, err := validate.ParseDate(in.DeliveryDate)
	if err != nil {
		return models.Quote{}, map[string]string{"delivery_date": "The delivery_date is not a valid date."}, nil
	}

	saved, err := s.intake.SaveAll(files, "quotes")
	if err != nil {
		return models.Quote{}, nil, err
	}

	q := buildQuote(in, deliveryDate)
	q.Status = models.QuoteStatusPending
	for _, f := range saved {
		q.Attachments = append(q.Attachments, f.Key)
	}

	if err := s.repo.Create(&q); err != nil {
		s.intake.Remove(q.Attachments...)
		return models.Quote{}, nil, err
	}

	// The notification must never fail the submission; the queue retries
	// on its own and parks exhausted jobs in the failed list.
	if err := queue.Dispatch(jobs.TypeQuoteNotify, &jobs.QuoteNotifyJob{QuoteID: q.ID}); err != nil {
		logger.Error("quote: dispatch notify", "quote_id", q.ID, "error", err)
	}

	return q, nil, nil
}

func (s *QuoteService) List(page, limit int) ([]models.Quote, orm.Pagination, error) {
	return s.repo.List(page, limit)
}

func (s *QuoteService) Get(id uint) (models.Quote, error) {
	return s.repo.FindByID(id)
}

// Update overwrites every editable field of an existing quote. The input
// passes through the same validation as a fresh submission; status and
// attachments are not editable here.
func (s *QuoteService) Update(id uint, in QuoteInput) (models.Quote, map[string]string, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return models.Quote{}, nil, err
	}

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Quote{}, errs, nil
	}
	deliveryDate, err := validate.ParseDate(in.DeliveryDate)
	if err != nil {
		return models.Quote{}, map[string]string{"delivery_date": "The delivery_date is not a valid date."}, nil
	}

	updated := buildQuote(in, deliveryDate)
	updated.Model = q.Model
	updated.Status = q.Status
	updated.Attachments = q.Attachments

	if err := s.repo.Update(&updated); err != nil {
		return models.Quote{}, nil, err
	}
	return updated, nil, nil
}

// UpdateStatus moves a quote forward in its lifecycle. Backward moves
// return ErrInvalidTransition.
func (s *QuoteService) UpdateStatus(id uint, status models.QuoteStatus) (models.Quote, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return models.Quote{}, err
	}
	if !status.Valid() || !q.Status.CanTransition(status) {
		return models.Quote{}, ErrInvalidTransition
	}

	q.Status = status
	if err := s.repo.Update(&q); err != nil {
		return models.Quote{}, err
	}
	return q, nil
}

// Delete removes the quote row and its stored attachments. Attachment
// deletes are best-effort: a flaky disk never blocks removing the row.
func (s *QuoteService) Delete(id uint) error {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	s.intake.Remove(q.Attachments...)
	return s.repo.Delete(id)
}

func buildQuote(in QuoteInput, deliveryDate time.Time) models.Quote {
	return models.Quote{
		FullName:          in.FullName,
		Email:             in.Email,
		Phone:             in.Phone,
		Company:           in.Company,
		Website:           in.Website,
		ProductName:       in.ProductName,
		ProductType:       in.ProductType,
		CultivationTypes:  models.StringList(in.CultivationTypes),
		ProcessingMethod:  in.ProcessingMethod,
		Unit:              in.Unit,
		Volume:            in.Volume,
		PurchaseType:      in.PurchaseType,
		DeliveryAddress:   in.DeliveryAddress,
		Incoterm:          in.Incoterm,
		DeliveryDate:      deliveryDate,
		DeliveryFrequency: in.DeliveryFrequency,
		Notes:             in.Notes,
	}
}
