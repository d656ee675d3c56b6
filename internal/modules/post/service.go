package post

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/pkg/pagination"
	"github.com/reconhq/recon-core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput carries the canonical post fields. Feature flags stay nil
// when the caller leaves them out; the dispatcher applies wire defaults.
type CreateInput struct {
	CreatedByID      string
	Title            string
	ShortDescription string
	Content          string
	ImageURL         string
	PostTag          string

	IsActive      *bool
	LatestNews    *bool
	UpcomingEvent *bool
	HeadLines     *bool
	Articles      *bool
	Trending      *bool
	BreakingNews  *bool
	Event         *bool

	EventDate    *time.Time
	EventEndDate *time.Time
	ScheduleDate *time.Time
	Counter      *int
}

func (s *Service) Create(in CreateInput) (*models.MasterPostModel, error) {
	post := &models.MasterPostModel{
		CreatedByID:      in.CreatedByID,
		Title:            strings.TrimSpace(in.Title),
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		Content:          in.Content,
		ImageURL:         strings.TrimSpace(in.ImageURL),
		PostTag:          strings.TrimSpace(in.PostTag),
		IsActive:         in.IsActive,
		LatestNews:       in.LatestNews,
		UpcomingEvent:    in.UpcomingEvent,
		HeadLines:        in.HeadLines,
		Articles:         in.Articles,
		Trending:         in.Trending,
		BreakingNews:     in.BreakingNews,
		Event:            in.Event,
		EventDate:        in.EventDate,
		EventEndDate:     in.EventEndDate,
		ScheduleDate:     in.ScheduleDate,
		Counter:          in.Counter,
	}
	if err := s.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) Get(id string) (*models.MasterPostModel, error) {
	var post models.MasterPostModel
	err := s.db.Preload("CreatedBy").
		Preload("Distributions.Portal").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *Service) List(c *gin.Context) ([]models.MasterPostModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.MasterPostModel{}).
		Preload("CreatedBy").
		Order("created_at DESC")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		db = db.Where("title LIKE ?", "%"+search+"%")
	}
	if createdBy := strings.TrimSpace(c.Query("created_by")); createdBy != "" {
		db = db.Where("created_by_id = ?", createdBy)
	}

	var rows []models.MasterPostModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

func (s *Service) Update(id string, updates map[string]any) (*models.MasterPostModel, error) {
	var post models.MasterPostModel
	err := s.db.First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.Model(&post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(id)
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.MasterPostModel{}, "id = ?", id).Error
}
