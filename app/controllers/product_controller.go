package controllers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agrovia/agrovia/app/services"
	"github.com/agrovia/agrovia/pkg/bind"
	"github.com/agrovia/agrovia/pkg/logger"
	"github.com/agrovia/agrovia/pkg/response"
	"github.com/agrovia/agrovia/pkg/upload"
)

type ProductController struct {
	svc *services.CatalogService
}

func NewProductController(svc *services.CatalogService) *ProductController {
	return &ProductController{svc: svc}
}

// Index is the public catalog listing.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	products, p, err := c.svc.List(page, limit)
	if err != nil {
		logger.Error("product: list", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not list products")
		return
	}
	response.Paginated(w, products, p)
}

// Show serves one product by slug (the public product page).
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.svc.Get(chi.URLParam(r, "slug"))
	if err != nil {
		notFoundOr500(w, err, "product: show")
		return
	}
	response.Success(w, product)
}

// AdminShow serves one product by ID for the edit form.
func (c *ProductController) AdminShow(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}
	product, err := c.svc.GetByID(id)
	if err != nil {
		notFoundOr500(w, err, "product: admin show")
		return
	}
	response.Success(w, product)
}

// Store creates a product from a multipart form (images optional).
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.Form(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, errs, err := c.svc.Create(in, imageParts(r))
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) || errors.Is(err, services.ErrTooManyImages) || errors.Is(err, upload.ErrRejected) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		logger.Error("product: create", "error", err)
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	response.Created(w, product)
}

// Update edits a product; remove_images lists keys to detach.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.ProductInput
	if errs, err := bind.Form(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, errs, err := c.svc.Update(id, in, imageParts(r))
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) || errors.Is(err, services.ErrTooManyImages) || errors.Is(err, upload.ErrRejected) {
			response.Error(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		notFoundOr500(w, err, "product: update")
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.svc.Delete(id); err != nil {
		notFoundOr500(w, err, "product: delete")
		return
	}
	response.Success(w, map[string]uint{"deleted": id})
}

// idList decodes a JSON array leniently: entries that are not positive
// integers (sentinel strings, nulls, zero) are dropped instead of failing
// the whole request. Dashboards send mixed arrays when rows carry
// placeholder ids.
type idList []uint

func (l *idList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make(idList, 0, len(raw))
	for _, item := range raw {
		var n uint
		if err := json.Unmarshal(item, &n); err == nil && n > 0 {
			ids = append(ids, n)
		}
	}
	*l = ids
	return nil
}

type bulkDeleteInput struct {
	IDs idList `json:"ids" validate:"required"`
}

// BulkDelete removes several products at once; unknown IDs are skipped.
func (c *ProductController) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var in bulkDeleteInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	deleted, err := c.svc.BulkDelete([]uint(in.IDs))
	if err != nil {
		logger.Error("product: bulk delete", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not delete products")
		return
	}
	response.Success(w, map[string]int64{"deleted": deleted})
}

func imageParts(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File["images"]
	return append(files, r.MultipartForm.File["images[]"]...)
}
