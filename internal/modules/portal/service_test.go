package portal

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/reconhq/recon-core/internal/database"
	"github.com/reconhq/recon-core/internal/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCreatePortalRejectsDuplicateName(t *testing.T) {
	svc := NewService(openTestDB(t))

	in := CreatePortalInput{Name: "alpha", BaseURL: "http://alpha.test/", APIKey: "k", SecretKey: "s"}
	portal, err := svc.Create(in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if portal.BaseURL != "http://alpha.test" {
		t.Errorf("base url not normalized: %q", portal.BaseURL)
	}
	if !portal.Enabled {
		t.Error("portal should default to enabled")
	}

	if _, err := svc.Create(in); !errors.Is(err, ErrPortalExists) {
		t.Fatalf("err = %v, want ErrPortalExists", err)
	}
}

func TestCategoryUniquePerPortal(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	alpha, _ := svc.Create(CreatePortalInput{Name: "alpha", BaseURL: "http://alpha.test", APIKey: "k", SecretKey: "s"})
	beta, _ := svc.Create(CreatePortalInput{Name: "beta", BaseURL: "http://beta.test", APIKey: "k", SecretKey: "s"})

	if _, err := svc.CreateCategory(CreateCategoryInput{PortalID: alpha.ID, Name: "World", ExternalID: "12"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateCategory(CreateCategoryInput{PortalID: alpha.ID, Name: "World Again", ExternalID: "12"}); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("err = %v, want ErrCategoryExists", err)
	}
	// The same external id on a different portal is a different category.
	if _, err := svc.CreateCategory(CreateCategoryInput{PortalID: beta.ID, Name: "World", ExternalID: "12"}); err != nil {
		t.Fatalf("create category on beta: %v", err)
	}

	found, err := svc.FindCategory("beta", "12")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.PortalID != beta.ID {
		t.Fatalf("found = %+v, want beta's category", found)
	}

	missing, err := svc.FindCategory("alpha", "404")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown external id, got %+v", missing)
	}
}

func TestSetPromptUpserts(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	alpha, _ := svc.Create(CreatePortalInput{Name: "alpha", BaseURL: "http://alpha.test", APIKey: "k", SecretKey: "s"})

	if _, err := svc.SetPrompt(&alpha.ID, "formal tone", true); err != nil {
		t.Fatalf("set prompt: %v", err)
	}
	if _, err := svc.SetPrompt(&alpha.ID, "casual tone", true); err != nil {
		t.Fatalf("set prompt: %v", err)
	}
	if _, err := svc.SetPrompt(nil, "house default", true); err != nil {
		t.Fatalf("set global prompt: %v", err)
	}

	var rows []models.PortalPromptModel
	if err := db.Order("created_at ASC").Find(&rows).Error; err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("row count = %d, want 2 (one per scope)", len(rows))
	}

	var alphaPrompt models.PortalPromptModel
	if err := db.First(&alphaPrompt, "portal_id = ?", alpha.ID).Error; err != nil {
		t.Fatal(err)
	}
	if alphaPrompt.Text != "casual tone" {
		t.Errorf("prompt = %q, want the updated text", alphaPrompt.Text)
	}
}
