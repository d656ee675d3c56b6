package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/reconhq/recon-core/internal/models"
	"github.com/reconhq/recon-core/internal/modules/identity"
	"github.com/reconhq/recon-core/internal/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 72 * time.Hour

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Service struct {
	db       *gorm.DB
	identity *identity.Service
	log      *zap.Logger
}

func NewService(db *gorm.DB, identitySvc *identity.Service, log *zap.Logger) *Service {
	return &Service{db: db, identity: identitySvc, log: log}
}

// RegisterInput carries a new account's fields.
type RegisterInput struct {
	Username string
	Name     string
	Email    string
	Password string
}

// Register creates the account and kicks off the cross-portal identity check
// in the background so registration never waits on portal round-trips.
func (s *Service) Register(in RegisterInput) (*models.UserModel, error) {
	username := strings.TrimSpace(in.Username)

	var count int64
	if err := s.db.Model(&models.UserModel{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.UserModel{
		Username: username,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: string(hash),
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	go func(u models.UserModel) {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		s.identity.MapUserAcrossPortals(ctx, &u)
	}(*user)

	return user, nil
}

// Login verifies the password and returns a signed token plus the user row.
func (s *Service) Login(username, password, ip string) (string, *models.UserModel, error) {
	var user models.UserModel
	err := s.db.First(&user, "username = ?", strings.TrimSpace(username)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := jwt.Sign(user.ID, user.Username, tokenTTL)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.db.Model(&user).Updates(map[string]any{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error; err != nil {
		s.log.Warn("last login update failed",
			zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginTime = &now
	user.LastLoginIP = ip

	return token, &user, nil
}

// Current loads the authenticated user with their portal identities.
func (s *Service) Current(userID string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.Preload("PortalMappings.Portal").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
