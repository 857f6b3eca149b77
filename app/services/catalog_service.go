package services

import (
	"errors"
	"mime/multipart"

	"github.com/gosimple/slug"

	"github.com/agrovia/agrovia/app/models"
	"github.com/agrovia/agrovia/app/repositories"
	"github.com/agrovia/agrovia/pkg/orm"
	"github.com/agrovia/agrovia/pkg/upload"
	"github.com/agrovia/agrovia/pkg/validate"
)

var (
	// ErrSlugTaken is returned when a product name slugifies to a slug
	// another product already owns.
	ErrSlugTaken = errors.New("a product with this name already exists")

	// ErrTooManyImages is returned when an update would push a product past
	// models.MaxProductImages.
	ErrTooManyImages = errors.New("too many images for one product")
)

// ProductInput carries one product create or update.
type ProductInput struct {
	Name        string `form:"name"        json:"name"        validate:"required,max=255"`
	Description string `form:"description" json:"description" validate:"nullable"`

	Origin          string `form:"origin"           json:"origin"           validate:"nullable,max=255"`
	Moisture        string `form:"moisture"         json:"moisture"         validate:"nullable,max=100"`
	Color           string `form:"color"            json:"color"            validate:"nullable,max=100"`
	Form            string `form:"form"             json:"form"             validate:"nullable,max=100"`
	Cultivation     string `form:"cultivation"      json:"cultivation"      validate:"nullable,max=100"`
	CultivationType string `form:"cultivation_type" json:"cultivation_type" validate:"nullable,max=100"`
	Purity          string `form:"purity"           json:"purity"           validate:"nullable,max=100"`
	Grades          string `form:"grades"           json:"grades"           validate:"nullable,max=100"`
	Admixture       string `form:"admixture"        json:"admixture"        validate:"nullable,max=100"`
	Defection       string `form:"defection"        json:"defection"        validate:"nullable,max=100"`
	MeasurementUnit string `form:"measurement_unit" json:"measurement_unit" validate:"nullable,max=50"`

	Stock int `form:"stock" json:"stock" validate:"nullable,min=0"`

	// RemoveImages lists storage keys to detach on update. Unknown keys are
	// ignored.
	RemoveImages []string `form:"remove_images" json:"remove_images"`
}

type CatalogService struct {
	repo   *repositories.ProductRepository
	intake *upload.Intake
}

func NewCatalogService(repo *repositories.ProductRepository, intake *upload.Intake) *CatalogService {
	return &CatalogService{repo: repo, intake: intake}
}

// Create validates the input, derives the slug from the name and stores
// the product with its images. Duplicate slugs are rejected before any
// file is written.
func (s *CatalogService) Create(in ProductInput, images []*multipart.FileHeader) (models.Product, map[string]string, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, errs, nil
	}
	if len(images) > models.MaxProductImages {
		return models.Product{}, nil, ErrTooManyImages
	}

	productSlug := slug.Make(in.Name)
	taken, err := s.repo.SlugExists(productSlug)
	if err != nil {
		return models.Product{}, nil, err
	}
	if taken {
		return models.Product{}, nil, ErrSlugTaken
	}

	saved, err := s.intake.SaveAll(images, "products")
	if err != nil {
		return models.Product{}, nil, err
	}

	p := buildProduct(in)
	p.Slug = productSlug
	for _, f := range saved {
		p.Images = append(p.Images, f.Key)
	}

	if err := s.repo.Create(&p); err != nil {
		s.intake.Remove(p.Images...)
		return models.Product{}, nil, err
	}
	return p, nil, nil
}

func (s *CatalogService) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.repo.List(page, limit)
}

func (s *CatalogService) Get(slugOrEmpty string) (models.Product, error) {
	return s.repo.FindBySlug(slugOrEmpty)
}

func (s *CatalogService) GetByID(id uint) (models.Product, error) {
	return s.repo.FindByID(id)
}

// Update edits a product. Images listed in RemoveImages are detached and
// deleted from storage; new uploads are appended afterwards, and the
// combined set must stay within models.MaxProductImages. Renaming
// re-derives the slug, which must stay unique.
func (s *CatalogService) Update(id uint, in ProductInput, images []*multipart.FileHeader) (models.Product, map[string]string, error) {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return models.Product{}, nil, err
	}

	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, errs, nil
	}

	newSlug := slug.Make(in.Name)
	if newSlug != p.Slug {
		taken, err := s.repo.SlugExists(newSlug)
		if err != nil {
			return models.Product{}, nil, err
		}
		if taken {
			return models.Product{}, nil, ErrSlugTaken
		}
	}

	kept := make(models.StringList, 0, len(p.Images))
	var dropped []string
	for _, key := range p.Images {
		if containsKey(in.RemoveImages, key) {
			dropped = append(dropped, key)
		} else {
			kept = append(kept, key)
		}
	}

	if len(kept)+len(images) > models.MaxProductImages {
		return models.Product{}, nil, ErrTooManyImages
	}

	saved, err := s.intake.SaveAll(images, "products")
	if err != nil {
		return models.Product{}, nil, err
	}
	for _, f := range saved {
		kept = append(kept, f.Key)
	}

	updated := buildProduct(in)
	updated.Model = p.Model
	updated.Slug = newSlug
	updated.Images = kept

	if err := s.repo.Update(&updated); err != nil {
		s.intake.Remove(keysOf(saved)...)
		return models.Product{}, nil, err
	}

	// Only drop the old files once the row is safely updated.
	s.intake.Remove(dropped...)
	return updated, nil, nil
}

// Delete removes the product and its stored images.
func (s *CatalogService) Delete(id uint) error {
	p, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	s.intake.Remove(p.Images...)
	return s.repo.Delete(id)
}

// BulkDelete removes every existing product in ids, skipping unknown IDs,
// and returns how many rows were deleted.
func (s *CatalogService) BulkDelete(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	existing, err := s.repo.FindByIDs(ids)
	if err != nil {
		return 0, err
	}
	if len(existing) == 0 {
		return 0, nil
	}

	keep := make([]uint, 0, len(existing))
	for _, p := range existing {
		keep = append(keep, p.ID)
		s.intake.Remove(p.Images...)
	}
	return s.repo.DeleteByIDs(keep)
}

func buildProduct(in ProductInput) models.Product {
	return models.Product{
		Name:            in.Name,
		Description:     in.Description,
		Origin:          in.Origin,
		Moisture:        in.Moisture,
		Color:           in.Color,
		Form:            in.Form,
		Cultivation:     in.Cultivation,
		CultivationType: in.CultivationType,
		Purity:          in.Purity,
		Grades:          in.Grades,
		Admixture:       in.Admixture,
		Defection:       in.Defection,
		MeasurementUnit: in.MeasurementUnit,
		Stock:           in.Stock,
	}
}

func containsKey(list []string, key string) bool {
	for _, item := range list {
		if item == key {
			return true
		}
	}
	return false
}

func keysOf(files []upload.SavedFile) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Key
	}
	return out
}
