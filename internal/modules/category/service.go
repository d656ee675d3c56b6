package category

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
	ErrCategoryExists  = errors.New("a master category with this name already exists")
	ErrGroupExists     = errors.New("a group with this name already exists")
	ErrMappingNotFound = errors.New("category mapping not found")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(name, description string) (*models.MasterCategoryModel, error) {
	var count int64
	if err := s.db.Model(&models.MasterCategoryModel{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := &models.MasterCategoryModel{
		Name:        strings.TrimSpace(name),
		Description: description,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) Get(id string) (*models.MasterCategoryModel, error) {
	var category models.MasterCategoryModel
	err := s.db.Preload("Mappings.PortalCategory.Portal").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *Service) List(c *gin.Context) ([]models.MasterCategoryModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.MasterCategoryModel{}).Order("created_at ASC")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		db = db.Where("name LIKE ?", "%"+search+"%")
	}

	var rows []models.MasterCategoryModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

func (s *Service) Update(id string, updates map[string]any) (*models.MasterCategoryModel, error) {
	var category models.MasterCategoryModel
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

func (s *Service) Delete(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CategoryMappingModel{}, "master_category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MasterCategoryModel{}, "id = ?", id).Error
	})
}

// MappingSpec names one desired link between a master category and a portal
// category.
type MappingSpec struct {
	MasterCategoryID  string `json:"master_category_id" binding:"required"`
	PortalCategoryID  string `json:"portal_category_id" binding:"required"`
	UseDefaultContent bool   `json:"use_default_content"`
}

// MappingReport summarizes a bulk mapping call: pairs that already existed
// are skipped, never duplicated.
type MappingReport struct {
	Created []models.CategoryMappingModel `json:"created"`
	Skipped int                           `json:"skipped"`
}

// CreateMappings bulk get-or-creates mapping rows. Existing (master, portal
// category) pairs count as skipped.
func (s *Service) CreateMappings(specs []MappingSpec) (*MappingReport, error) {
	report := &MappingReport{Created: []models.CategoryMappingModel{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, spec := range specs {
			var count int64
			if err := tx.Model(&models.CategoryMappingModel{}).
				Where("master_category_id = ? AND portal_category_id = ?",
					spec.MasterCategoryID, spec.PortalCategoryID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				report.Skipped++
				continue
			}

			mapping := models.CategoryMappingModel{
				MasterCategoryID:  spec.MasterCategoryID,
				PortalCategoryID:  spec.PortalCategoryID,
				UseDefaultContent: spec.UseDefaultContent,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
			report.Created = append(report.Created, mapping)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) ListMappings(c *gin.Context) ([]models.CategoryMappingModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.CategoryMappingModel{}).
		Preload("MasterCategory").
		Preload("PortalCategory.Portal").
		Order("created_at ASC")
	if masterID := strings.TrimSpace(c.Query("master_category_id")); masterID != "" {
		db = db.Where("master_category_id = ?", masterID)
	}
	if portalID := strings.TrimSpace(c.Query("portal_id")); portalID != "" {
		db = db.Joins("JOIN portal_categories ON portal_categories.id = category_mappings.portal_category_id").
			Where("portal_categories.portal_id = ?", portalID)
	}

	var rows []models.CategoryMappingModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

func (s *Service) DeleteMapping(id string) error {
	return s.db.Delete(&models.CategoryMappingModel{}, "id = ?", id).Error
}

// SetDefault marks one mapping as its portal's default and clears the flag
// from every other mapping of that portal in the same transaction.
func (s *Service) SetDefault(mappingID string) (*models.CategoryMappingModel, error) {
	var mapping models.CategoryMappingModel

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("PortalCategory").First(&mapping, "id = ?", mappingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMappingNotFound
			}
			return err
		}
		if mapping.PortalCategory == nil {
			return ErrMappingNotFound
		}

		portalID := mapping.PortalCategory.PortalID
		if err := tx.Model(&models.CategoryMappingModel{}).
			Where("id IN (?)", tx.Model(&models.CategoryMappingModel{}).
				Select("category_mappings.id").
				Joins("JOIN portal_categories ON portal_categories.id = category_mappings.portal_category_id").
				Where("portal_categories.portal_id = ?", portalID)).
			Update("is_default", false).Error; err != nil {
			return err
		}

		if err := tx.Model(&mapping).Update("is_default", true).Error; err != nil {
			return err
		}
		mapping.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

func (s *Service) CreateGroup(name string, masterCategoryIDs []string) (*models.GroupModel, error) {
	var count int64
	if err := s.db.Model(&models.GroupModel{}).
		Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrGroupExists
	}

	var categories []models.MasterCategoryModel
	if len(masterCategoryIDs) > 0 {
		if err := s.db.Where("id IN ?", masterCategoryIDs).Find(&categories).Error; err != nil {
			return nil, err
		}
	}

	group := &models.GroupModel{
		Name:             strings.TrimSpace(name),
		MasterCategories: categories,
	}
	if err := s.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

func (s *Service) GetGroup(id string) (*models.GroupModel, error) {
	var group models.GroupModel
	err := s.db.Preload("MasterCategories").First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (s *Service) ListGroups(c *gin.Context) ([]models.GroupModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.GroupModel{}).
		Preload("MasterCategories").
		Order("created_at ASC")

	var rows []models.GroupModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

// UpdateGroup renames a group and, when ids are given, replaces its member set.
func (s *Service) UpdateGroup(id string, name *string, masterCategoryIDs []string) (*models.GroupModel, error) {
	group, err := s.GetGroup(id)
	if err != nil || group == nil {
		return group, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if name != nil {
			if err := tx.Model(group).Update("name", *name).Error; err != nil {
				return err
			}
		}
		if masterCategoryIDs != nil {
			var categories []models.MasterCategoryModel
			if len(masterCategoryIDs) > 0 {
				if err := tx.Where("id IN ?", masterCategoryIDs).Find(&categories).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(group).Association("MasterCategories").Replace(categories); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetGroup(id)
}

func (s *Service) DeleteGroup(id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		group := models.GroupModel{Base: models.Base{ID: id}}
		if err := tx.Model(&group).Association("MasterCategories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.GroupModel{}, "id = ?", id).Error
	})
}
