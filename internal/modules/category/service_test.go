package category

import (
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

func seedPortalWithCategories(t *testing.T, db *gorm.DB, name string, externalIDs ...string) (models.PortalModel, []models.PortalCategoryModel) {
	t.Helper()
	portal := models.PortalModel{Name: name, BaseURL: "http://" + name + ".test", APIKey: "k", SecretKey: "s", Enabled: true}
	if err := db.Create(&portal).Error; err != nil {
		t.Fatalf("seed portal: %v", err)
	}
	categories := make([]models.PortalCategoryModel, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		category := models.PortalCategoryModel{PortalID: portal.ID, Name: "cat-" + externalID, ExternalID: externalID}
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("seed category: %v", err)
		}
		categories = append(categories, category)
	}
	return portal, categories
}

func TestCreateMappingsSkipsExistingPairs(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	master, err := svc.Create("World", "")
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	_, categories := seedPortalWithCategories(t, db, "alpha", "1", "2")

	specs := []MappingSpec{
		{MasterCategoryID: master.ID, PortalCategoryID: categories[0].ID},
		{MasterCategoryID: master.ID, PortalCategoryID: categories[1].ID, UseDefaultContent: true},
	}

	report, err := svc.CreateMappings(specs)
	if err != nil {
		t.Fatalf("create mappings: %v", err)
	}
	if len(report.Created) != 2 || report.Skipped != 0 {
		t.Fatalf("report = %d created / %d skipped, want 2/0", len(report.Created), report.Skipped)
	}

	// Same call again: everything already exists.
	report, err = svc.CreateMappings(specs)
	if err != nil {
		t.Fatalf("create mappings: %v", err)
	}
	if len(report.Created) != 0 || report.Skipped != 2 {
		t.Fatalf("report = %d created / %d skipped, want 0/2", len(report.Created), report.Skipped)
	}

	var count int64
	db.Model(&models.CategoryMappingModel{}).Count(&count)
	if count != 2 {
		t.Fatalf("row count = %d, want 2", count)
	}
}

func TestSetDefaultClearsPortalSiblings(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	master, err := svc.Create("World", "")
	if err != nil {
		t.Fatalf("create master: %v", err)
	}
	other, err := svc.Create("Sports", "")
	if err != nil {
		t.Fatalf("create master: %v", err)
	}

	_, alphaCats := seedPortalWithCategories(t, db, "alpha", "1", "2")
	_, betaCats := seedPortalWithCategories(t, db, "beta", "7")

	report, err := svc.CreateMappings([]MappingSpec{
		{MasterCategoryID: master.ID, PortalCategoryID: alphaCats[0].ID},
		{MasterCategoryID: other.ID, PortalCategoryID: alphaCats[1].ID},
		{MasterCategoryID: master.ID, PortalCategoryID: betaCats[0].ID},
	})
	if err != nil {
		t.Fatalf("create mappings: %v", err)
	}
	alphaFirst, alphaSecond, betaOnly := report.Created[0], report.Created[1], report.Created[2]

	if _, err := svc.SetDefault(alphaFirst.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if _, err := svc.SetDefault(betaOnly.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}

	// Moving alpha's default must clear the old one but leave beta's alone.
	if _, err := svc.SetDefault(alphaSecond.ID); err != nil {
		t.Fatalf("set default: %v", err)
	}

	assertDefault := func(id string, want bool) {
		t.Helper()
		var mapping models.CategoryMappingModel
		if err := db.First(&mapping, "id = ?", id).Error; err != nil {
			t.Fatalf("load mapping: %v", err)
		}
		if mapping.IsDefault != want {
			t.Errorf("mapping %s is_default = %v, want %v", id, mapping.IsDefault, want)
		}
	}
	assertDefault(alphaFirst.ID, false)
	assertDefault(alphaSecond.ID, true)
	assertDefault(betaOnly.ID, true)
}

func TestSetDefaultUnknownMapping(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	if _, err := svc.SetDefault("missing"); err != ErrMappingNotFound {
		t.Fatalf("err = %v, want ErrMappingNotFound", err)
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	if _, err := svc.Create("World", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create("World", ""); err != ErrCategoryExists {
		t.Fatalf("err = %v, want ErrCategoryExists", err)
	}
}

func TestGroupLifecycle(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	world, _ := svc.Create("World", "")
	sports, _ := svc.Create("Sports", "")

	group, err := svc.CreateGroup("desk", []string{world.ID, sports.ID})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if len(group.MasterCategories) != 2 {
		t.Fatalf("members = %d, want 2", len(group.MasterCategories))
	}

	name := "night desk"
	updated, err := svc.UpdateGroup(group.ID, &name, []string{world.ID})
	if err != nil {
		t.Fatalf("update group: %v", err)
	}
	if updated.Name != "night desk" {
		t.Errorf("name = %q", updated.Name)
	}
	if len(updated.MasterCategories) != 1 || updated.MasterCategories[0].ID != world.ID {
		t.Errorf("members not replaced: %+v", updated.MasterCategories)
	}

	if err := svc.DeleteGroup(group.ID); err != nil {
		t.Fatalf("delete group: %v", err)
	}
	got, err := svc.GetGroup(group.ID)
	if err != nil {
		t.Fatalf("get group: %v", err)
	}
	if got != nil {
		t.Fatalf("group still present after delete")
	}
}
