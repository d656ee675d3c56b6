package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/pkg/pagination"
	"github.com/reconhq/recon-core/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoIdentityMapping is returned when a user has no MATCHED account on a
// portal. The dispatcher turns it into a per-portal failure instead of
// aborting the publish.
var ErrNoIdentityMapping = errors.New("user has no matched account on this portal")

// checkResult is the portal's answer to a username lookup, decoded from the
// shared response envelope.
type checkResult struct {
	Exists bool
	UserID string
}

// checkEnvelope mirrors the portals' {status, data} reply. The account id may
// arrive as a number or a string depending on the portal.
type checkEnvelope struct {
	Status bool `json:"status"`
	Data   struct {
		ID       any    `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// Service resolves and maintains cross-portal user identities.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	timeout time.Duration
}

func NewService(db *gorm.DB, log *zap.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{db: db, log: log, timeout: timeout}
}

// ResolveAuthor returns the portal-side username for a user on one portal.
// Only MATCHED rows resolve; PENDING and MISMATCH are treated as absent.
func (s *Service) ResolveAuthor(userID, portalID string) (string, error) {
	var mapping models.PortalUserMappingModel
	err := s.db.Where("user_id = ? AND portal_id = ? AND status = ?",
		userID, portalID, models.MappingMatched).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoIdentityMapping
		}
		return "", err
	}
	return mapping.PortalUsername, nil
}

// MapUserAcrossPortals checks the user's username against every enabled
// portal and upserts one mapping row per portal. Portal lookup failures are
// recorded as PENDING rows rather than propagated; a later run re-checks them.
func (s *Service) MapUserAcrossPortals(ctx context.Context, user *models.UserModel) {
	var portals []models.PortalModel
	if err := s.db.Where("enabled = ?", true).Find(&portals).Error; err != nil {
		s.log.Error("portal list failed during identity mapping", zap.Error(err))
		return
	}

	for _, portal := range portals {
		status := models.MappingPending
		portalUserID := ""
		notes := ""

		result, err := s.CheckUsername(ctx, &portal, user.Username)
		switch {
		case err != nil:
			notes = err.Error()
			s.log.Warn("username check failed",
				zap.String("portal", portal.Name),
				zap.String("username", user.Username),
				zap.Error(err))
		case result.Exists:
			status = models.MappingMatched
			portalUserID = result.UserID
		default:
			notes = "username not found on portal"
		}

		if err := s.upsertMapping(user.ID, portal.ID, user.Username, portalUserID, status, notes); err != nil {
			s.log.Error("identity mapping upsert failed",
				zap.String("portal", portal.Name),
				zap.String("user_id", user.ID),
				zap.Error(err))
		}
	}
}

// CheckUsername asks one portal whether a username exists there.
func (s *Service) CheckUsername(ctx context.Context, portal *models.PortalModel, username string) (*checkResult, error) {
	endpoint := strings.TrimRight(portal.BaseURL, "/") + "/api/check-username/?username=" + url.QueryEscape(username)

	reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", portal.APIKey)
	req.Header.Set("X-Secret-Key", portal.SecretKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("portal returned status %d", resp.StatusCode)
	}

	var env checkEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid username check response: %w", err)
	}
	result := checkResult{Exists: env.Status}
	if env.Status && env.Data.ID != nil {
		result.UserID = formatPortalID(env.Data.ID)
	}
	return &result, nil
}

func formatPortalID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64; portal ids are integral.
		return strconv.FormatInt(int64(v), 10)
	default:
		return fmt.Sprint(v)
	}
}

// Refresh re-runs the cross-portal check for one user on demand.
func (s *Service) Refresh(ctx context.Context, userID string) error {
	var user models.UserModel
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	s.MapUserAcrossPortals(ctx, &user)
	return nil
}

// ListByUser returns a user's mapping rows across all portals, paginated.
func (s *Service) ListByUser(c *gin.Context, userID string) ([]models.PortalUserMappingModel, response.Pagination, error) {
	q := pagination.FromContext(c)
	db := s.db.Model(&models.PortalUserMappingModel{}).
		Preload("Portal").
		Where("user_id = ?", userID).
		Order("created_at ASC")

	var rows []models.PortalUserMappingModel
	page, err := pagination.Paginate(db, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, page, nil
}

func (s *Service) upsertMapping(userID, portalID, username, portalUserID, status, notes string) error {
	var existing models.PortalUserMappingModel
	err := s.db.Where("user_id = ? AND portal_id = ?", userID, portalID).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.db.Create(&models.PortalUserMappingModel{
			UserID:         userID,
			PortalID:       portalID,
			PortalUserID:   portalUserID,
			PortalUsername: username,
			Status:         status,
			Notes:          notes,
		}).Error
	}

	return s.db.Model(&existing).Updates(map[string]any{
		"portal_user_id":  portalUserID,
		"portal_username": username,
		"status":          status,
		"notes":           notes,
	}).Error
}
