package distribution

import (
	"testing"

	"github.com/reconhq/recon-core/internal/models"
	"gorm.io/gorm"
)

func seedMappedCategory(t *testing.T, db *gorm.DB, portal models.PortalModel, master models.MasterCategoryModel, externalID string) models.CategoryMappingModel {
	t.Helper()
	category := models.PortalCategoryModel{
		PortalID:   portal.ID,
		Name:       "cat-" + externalID,
		ExternalID: externalID,
	}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	mapping := models.CategoryMappingModel{
		MasterCategoryID: master.ID,
		PortalCategoryID: category.ID,
	}
	if err := db.Create(&mapping).Error; err != nil {
		t.Fatalf("seed mapping: %v", err)
	}
	return mapping
}

func TestResolveByUserExpandsGroups(t *testing.T) {
	db := openTestDB(t)
	r := NewResolver(db)

	user := models.UserModel{Username: "editor", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	portal := models.PortalModel{Name: "alpha", BaseURL: "http://alpha.test", APIKey: "k", SecretKey: "s", Enabled: true}
	if err := db.Create(&portal).Error; err != nil {
		t.Fatal(err)
	}

	world := models.MasterCategoryModel{Name: "World"}
	sports := models.MasterCategoryModel{Name: "Sports"}
	tech := models.MasterCategoryModel{Name: "Tech"}
	for _, mc := range []*models.MasterCategoryModel{&world, &sports, &tech} {
		if err := db.Create(mc).Error; err != nil {
			t.Fatal(err)
		}
	}

	seedMappedCategory(t, db, portal, world, "1")
	seedMappedCategory(t, db, portal, sports, "2")
	seedMappedCategory(t, db, portal, tech, "3")

	group := models.GroupModel{Name: "desk", MasterCategories: []models.MasterCategoryModel{world, sports}}
	if err := db.Create(&group).Error; err != nil {
		t.Fatal(err)
	}

	// One group grant plus one direct category grant.
	if err := db.Create(&models.UserAssignmentModel{UserID: user.ID, GroupID: &group.ID}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.UserAssignmentModel{UserID: user.ID, MasterCategoryID: &tech.ID}).Error; err != nil {
		t.Fatal(err)
	}

	targets, err := r.ResolveByUser(user.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(targets) != 3 {
		t.Fatalf("expected 3 targets, got %d", len(targets))
	}
	seen := map[string]bool{}
	for _, target := range targets {
		if target.Portal.ID != portal.ID {
			t.Errorf("unexpected portal %s", target.Portal.Name)
		}
		seen[target.PortalCategory.ExternalID] = true
	}
	for _, id := range []string{"1", "2", "3"} {
		if !seen[id] {
			t.Errorf("external id %s missing from targets", id)
		}
	}
}

func TestResolveByUserWithoutAssignments(t *testing.T) {
	db := openTestDB(t)
	r := NewResolver(db)

	user := models.UserModel{Username: "fresh", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}

	targets, err := r.ResolveByUser(user.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(targets) != 0 {
		t.Fatalf("expected no targets, got %d", len(targets))
	}
}

func TestResolveDefaultTarget(t *testing.T) {
	db := openTestDB(t)
	r := NewResolver(db)

	portal := models.PortalModel{Name: "alpha", BaseURL: "http://alpha.test", APIKey: "k", SecretKey: "s", Enabled: true}
	if err := db.Create(&portal).Error; err != nil {
		t.Fatal(err)
	}
	master := models.MasterCategoryModel{Name: "World"}
	if err := db.Create(&master).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := r.ResolveDefaultTarget(portal.ID); err != ErrNoDefaultMapping {
		t.Fatalf("err = %v, want ErrNoDefaultMapping", err)
	}

	mapping := seedMappedCategory(t, db, portal, master, "9")
	if err := db.Model(&models.CategoryMappingModel{}).
		Where("id = ?", mapping.ID).Update("is_default", true).Error; err != nil {
		t.Fatal(err)
	}

	target, err := r.ResolveDefaultTarget(portal.ID)
	if err != nil {
		t.Fatalf("resolve default: %v", err)
	}
	if target.PortalCategory.ExternalID != "9" {
		t.Errorf("external id = %q, want 9", target.PortalCategory.ExternalID)
	}
	if target.Portal.ID != portal.ID {
		t.Errorf("portal mismatch")
	}
}
