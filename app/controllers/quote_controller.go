package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/bind"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
	"github.com/agrovia/agrovia/pkg/upload"
)

type QuoteController struct {
	svc *services.QuoteService
}

func NewQuoteController(svc *services.QuoteService) *QuoteController {
	return &QuoteController{svc: svc}
}

// Store handles the public quote form (multipart, attachments optional).
func (c *QuoteController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.QuoteInput
	if errs, err := bind.Form(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	quote, errs, err := c.svc.Submit(in, attachments(r))
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		// Rejected uploads (count/size/type) are the caller's to fix;
		// a storage or database failure is not their business.
		if errors.Is(err, upload.ErrRejected) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error("quote: submit", "error", err)
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	response.Created(w, quote)
}

// Index lists quotes for the dashboard.
func (c *QuoteController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	quotes, p, err := c.svc.List(page, limit)
	if err != nil {
		logger.Error("quote: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not list quotes")
		return
	}
	response.Paginated(w, quotes, p)
}

func (c *QuoteController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}
	quote, err := c.svc.Get(id)
	if err != nil {
		notFoundOr500(w, err, "quote: show")
		return
	}
	response.Success(w, quote)
}

// Update overwrites the editable fields of a quote.
func (c *QuoteController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.QuoteInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	quote, errs, err := c.svc.Update(id, in)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		notFoundOr500(w, err, "quote: update")
		return
	}
	response.Success(w, quote)
}

type statusInput struct {
	Status string `json:"status" validate:"required,in=pending|read|replied|closed"`
}

// UpdateStatus advances a quote through its lifecycle.
func (c *QuoteController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in statusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	quote, err := c.svc.UpdateStatus(id, models.QuoteStatus(in.Status))
	if err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		notFoundOr500(w, err, "quote: update status")
		return
	}
	response.Success(w, quote)
}

func (c *QuoteController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.svc.Delete(id); err != nil {
		notFoundOr500(w, err, "quote: delete")
		return
	}
	response.Success(w, map[string]uint{"deleted": id})
}

// attachments pulls the uploaded file parts, accepting both the plain and
// the []-suffixed field name.
func attachments(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File["attachments"]
	return append(files, r.MultipartForm.File["attachments[]"]...)
}

// notFoundOr500 maps repository misses to 404 and everything else to a
// logged 500.
func notFoundOr500(w http.ResponseWriter, err error, logPrefix string) {
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	logger.Error(logPrefix, "error", err)
	response.Error(w, http.StatusInternalServerError, "Something went wrong")
}
