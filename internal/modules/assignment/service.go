package assignment

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/pkg/pagination"
	"github.com/reconhq/recon-core/internal/pkg/response"
	"gorm.io/gorm"
)

var ErrInvalidAssignment = errors.New("an assignment names exactly one group or one master category")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AssignInput grants one user a set of groups and/or master categories.
type AssignInput struct {
	UserID            string
	GroupIDs          []string
	MasterCategoryIDs []string
}

// Assign creates one row per granted group or category. Grants the user
// already holds are skipped, so the call is safe to repeat.
func (s *Service) Assign(in AssignInput) ([]models.UserAssignmentModel, error) {
	if len(in.GroupIDs) == 0 && len(in.MasterCategoryIDs) == 0 {
		return nil, ErrInvalidAssignment
	}

	var created []models.UserAssignmentModel
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, groupID := range in.GroupIDs {
			gid := groupID
			var count int64
			if err := tx.Model(&models.UserAssignmentModel{}).
				Where("user_id = ? AND group_id = ?", in.UserID, gid).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			row := models.UserAssignmentModel{UserID: in.UserID, GroupID: &gid}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			created = append(created, row)
		}

		for _, categoryID := range in.MasterCategoryIDs {
			cid := categoryID
			var count int64
			if err := tx.Model(&models.UserAssignmentModel{}).
				Where("user_id = ? AND master_category_id = ?", in.UserID, cid).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			row := models.UserAssignmentModel{UserID: in.UserID, MasterCategoryID: &cid}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) List(c *gin.Context) ([]models.UserAssignmentModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.UserAssignmentModel{}).
		Preload("User").
		Preload("Group.MasterCategories").
		Preload("MasterCategory").
		Order("created_at ASC")
	if userID := strings.TrimSpace(c.Query("user_id")); userID != "" {
		db = db.Where("user_id = ?", userID)
	}
	if groupID := strings.TrimSpace(c.Query("group_id")); groupID != "" {
		db = db.Where("group_id = ?", groupID)
	}

	var rows []models.UserAssignmentModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

// ListByUser returns all assignment rows for one user without pagination,
// in grant order.
func (s *Service) ListByUser(userID string) ([]models.UserAssignmentModel, error) {
	var rows []models.UserAssignmentModel
	err := s.db.Preload("Group.MasterCategories").
		Preload("MasterCategory").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.UserAssignmentModel{}, "id = ?", id).Error
}
