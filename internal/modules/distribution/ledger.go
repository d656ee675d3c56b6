package distribution

import (
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/pkg/pagination"
	"github.com/reconhq/recon-core/internal/pkg/response"
	"gorm.io/gorm"
)

// Ledger owns all writes to distribution records. Every (post, portal) pair
// holds at most one row; concurrent publishes of the same pair serialize on
// a per-pair mutex so the retry counter never skips.
type Ledger struct {
	db *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, locks: map[string]*sync.Mutex{}}
}

// AttemptOutcome captures one finished delivery attempt for recording.
type AttemptOutcome struct {
	PostID           string
	PortalID         string
	PortalCategoryID string
	MasterCategoryID string
	Variant          Variant
	Status           string
	ResponseMessage  string
}

// Record upserts the ledger row for the attempt's (post, portal) pair.
// A first attempt creates the row with RetryCount 0; every later attempt
// overwrites the outcome fields and increments RetryCount by exactly one.
func (l *Ledger) Record(outcome AttemptOutcome) (*models.DistributionRecordModel, error) {
	lock := l.pairLock(outcome.PostID, outcome.PortalID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	var record models.DistributionRecordModel

	err := l.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("post_id = ? AND portal_id = ?", outcome.PostID, outcome.PortalID).
			First(&record).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record = models.DistributionRecordModel{
				PostID:                  outcome.PostID,
				PortalID:                outcome.PortalID,
				PortalCategoryID:        optionalID(outcome.PortalCategoryID),
				MasterCategoryID:        optionalID(outcome.MasterCategoryID),
				VariantTitle:            outcome.Variant.Title,
				VariantShortDescription: outcome.Variant.ShortDescription,
				VariantContent:          outcome.Variant.Content,
				VariantMetaTitle:        outcome.Variant.MetaTitle,
				VariantSlug:             outcome.Variant.Slug,
				Status:                  outcome.Status,
				ResponseMessage:         outcome.ResponseMessage,
				RetryCount:              0,
				SentAt:                  &now,
			}
			return tx.Create(&record).Error
		}

		updates := map[string]any{
			"portal_category_id":        optionalID(outcome.PortalCategoryID),
			"master_category_id":        optionalID(outcome.MasterCategoryID),
			"variant_title":             outcome.Variant.Title,
			"variant_short_description": outcome.Variant.ShortDescription,
			"variant_content":           outcome.Variant.Content,
			"variant_meta_title":        outcome.Variant.MetaTitle,
			"variant_slug":              outcome.Variant.Slug,
			"status":                    outcome.Status,
			"response_message":          outcome.ResponseMessage,
			"retry_count":               record.RetryCount + 1,
			"sent_at":                   &now,
		}
		if err := tx.Model(&record).Updates(updates).Error; err != nil {
			return err
		}
		record.RetryCount++
		record.Status = outcome.Status
		record.ResponseMessage = outcome.ResponseMessage
		record.SentAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Get returns the record for one (post, portal) pair, or (nil, nil) when
// the pair has never been dispatched.
func (l *Ledger) Get(postID, portalID string) (*models.DistributionRecordModel, error) {
	var record models.DistributionRecordModel
	err := l.db.Where("post_id = ? AND portal_id = ?", postID, portalID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// GetByID returns one record by primary key, or (nil, nil).
func (l *Ledger) GetByID(id string) (*models.DistributionRecordModel, error) {
	var record models.DistributionRecordModel
	err := l.db.Preload("Portal").Preload("PortalCategory").Preload("Post").
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByPost returns a post's delivery history across portals, paginated.
func (l *Ledger) ListByPost(c *gin.Context, postID string) ([]models.DistributionRecordModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := l.db.Model(&models.DistributionRecordModel{}).
		Preload("Portal").Preload("PortalCategory").
		Where("post_id = ?", postID).
		Order("created_at ASC")

	var rows []models.DistributionRecordModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

// List returns all records, optionally filtered by status or portal.
func (l *Ledger) List(c *gin.Context, status, portalID string) ([]models.DistributionRecordModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := l.db.Model(&models.DistributionRecordModel{}).
		Preload("Portal").Preload("Post").
		Order("created_at DESC")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if portalID != "" {
		db = db.Where("portal_id = ?", portalID)
	}

	var rows []models.DistributionRecordModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

func (l *Ledger) pairLock(postID, portalID string) *sync.Mutex {
	key := postID + "|" + portalID
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
