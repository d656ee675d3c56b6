package portal

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/pkg/pagination"
	"github.com/reconhq/recon-core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	ErrPortalExists   = errors.New("a portal with this name already exists")
	ErrCategoryExists = errors.New("this portal already has a category with this external id")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreatePortalInput carries the fields needed to register a portal.
type CreatePortalInput struct {
	Name      string
	BaseURL   string
	APIKey    string
	SecretKey string
	Domain    string
	Enabled   *bool
}

func (s *Service) Create(in CreatePortalInput) (*models.PortalModel, error) {
	var count int64
	if err := s.db.Model(&models.PortalModel{}).
		Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrPortalExists
	}

	portal := &models.PortalModel{
		Name:      strings.TrimSpace(in.Name),
		BaseURL:   strings.TrimRight(strings.TrimSpace(in.BaseURL), "/"),
		APIKey:    in.APIKey,
		SecretKey: in.SecretKey,
		Domain:    strings.TrimSpace(in.Domain),
		Enabled:   true,
	}
	if in.Enabled != nil {
		portal.Enabled = *in.Enabled
	}
	if err := s.db.Create(portal).Error; err != nil {
		return nil, err
	}
	return portal, nil
}

func (s *Service) Get(id string) (*models.PortalModel, error) {
	var portal models.PortalModel
	err := s.db.First(&portal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &portal, nil
}

// GetByName looks a portal up by its unique name.
func (s *Service) GetByName(name string) (*models.PortalModel, error) {
	var portal models.PortalModel
	err := s.db.First(&portal, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &portal, nil
}

func (s *Service) List(c *gin.Context) ([]models.PortalModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.PortalModel{}).Order("created_at ASC")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		db = db.Where("name LIKE ?", "%"+search+"%")
	}

	var rows []models.PortalModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

// Update applies the non-nil fields; credentials rotate only when provided.
func (s *Service) Update(id string, updates map[string]any) (*models.PortalModel, error) {
	portal, err := s.Get(id)
	if err != nil || portal == nil {
		return portal, err
	}
	if len(updates) == 0 {
		return portal, nil
	}
	if err := s.db.Model(portal).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PortalModel{}, "id = ?", id).Error
}

// CreateCategoryInput registers one portal-side category.
type CreateCategoryInput struct {
	PortalID   string
	Name       string
	ExternalID string
	ParentID   *string
}

// CreateCategory inserts a portal category; the (portal, external id) pair
// must be new.
func (s *Service) CreateCategory(in CreateCategoryInput) (*models.PortalCategoryModel, error) {
	var count int64
	if err := s.db.Model(&models.PortalCategoryModel{}).
		Where("portal_id = ? AND external_id = ?", in.PortalID, in.ExternalID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := &models.PortalCategoryModel{
		PortalID:   in.PortalID,
		Name:       strings.TrimSpace(in.Name),
		ExternalID: strings.TrimSpace(in.ExternalID),
		ParentID:   in.ParentID,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindCategory resolves a portal category by portal name and external id.
func (s *Service) FindCategory(portalName, externalID string) (*models.PortalCategoryModel, error) {
	var category models.PortalCategoryModel
	err := s.db.Joins("JOIN portals ON portals.id = portal_categories.portal_id").
		Where("portals.name = ? AND portal_categories.external_id = ?", portalName, externalID).
		Preload("Portal").
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *Service) ListCategories(c *gin.Context) ([]models.PortalCategoryModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.PortalCategoryModel{}).
		Preload("Portal").
		Order("created_at ASC")
	if portalID := strings.TrimSpace(c.Query("portal_id")); portalID != "" {
		db = db.Where("portal_id = ?", portalID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		db = db.Where("name LIKE ?", "%"+search+"%")
	}

	var rows []models.PortalCategoryModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

func (s *Service) UpdateCategory(id string, updates map[string]any) (*models.PortalCategoryModel, error) {
	var category models.PortalCategoryModel
	err := s.db.First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.Model(&category).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &category, nil
}

func (s *Service) DeleteCategory(id string) error {
	return s.db.Delete(&models.PortalCategoryModel{}, "id = ?", id).Error
}

// SetPrompt upserts the rewrite style prompt for one portal, or the global
// prompt when portalID is nil.
func (s *Service) SetPrompt(portalID *string, text string, enabled bool) (*models.PortalPromptModel, error) {
	var existing models.PortalPromptModel
	query := s.db.Where("portal_id IS NULL")
	if portalID != nil {
		query = s.db.Where("portal_id = ?", *portalID)
	}

	err := query.First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		prompt := &models.PortalPromptModel{
			PortalID: portalID,
			Text:     text,
			Enabled:  enabled,
		}
		if err := s.db.Create(prompt).Error; err != nil {
			return nil, err
		}
		return prompt, nil
	}

	if err := s.db.Model(&existing).Updates(map[string]any{
		"text":    text,
		"enabled": enabled,
	}).Error; err != nil {
		return nil, err
	}
	existing.Text = text
	existing.Enabled = enabled
	return &existing, nil
}

func (s *Service) ListPrompts(c *gin.Context) ([]models.PortalPromptModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.PortalPromptModel{}).
		Preload("Portal").
		Order("created_at ASC")

	var rows []models.PortalPromptModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}
