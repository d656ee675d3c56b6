package distribution

import (
	"errors"

	"github.com/reconhq/recon-core/internal/models"
	"gorm.io/gorm"
)

// Resolver turns a master-category or user selector into the flat list of
// (portal, portal category, mapping) targets.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveByMasterCategory returns every target mapped under one master
// category. The list is flat and not deduplicated by portal; the dispatcher
// keeps the first mapping per portal when building publish attempts.
func (r *Resolver) ResolveByMasterCategory(masterCategoryID string) ([]Target, error) {
	return r.targetsForCategories([]string{masterCategoryID})
}

// ResolveByUser unions targets over all of a user's assignments, expanding
// group assignments into their member master categories.
func (r *Resolver) ResolveByUser(userID string) ([]Target, error) {
	var assignments []models.UserAssignmentModel
	if err := r.db.Preload("Group.MasterCategories").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	var categoryIDs []string
	seen := map[string]struct{}{}
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		categoryIDs = append(categoryIDs, id)
	}
	for _, a := range assignments {
		if a.MasterCategoryID != nil {
			add(*a.MasterCategoryID)
		}
		if a.Group != nil {
			for _, mc := range a.Group.MasterCategories {
				add(mc.ID)
			}
		}
	}
	if len(categoryIDs) == 0 {
		return []Target{}, nil
	}
	return r.targetsForCategories(categoryIDs)
}

// ResolveDefaultTarget returns the mapping flagged is_default for a portal.
// Its absence is a hard error: the caller must select a category explicitly.
func (r *Resolver) ResolveDefaultTarget(portalID string) (*Target, error) {
	var mapping models.CategoryMappingModel
	err := r.db.
		Joins("JOIN portal_categories ON portal_categories.id = category_mappings.portal_category_id").
		Where("portal_categories.portal_id = ? AND category_mappings.is_default = ?", portalID, true).
		Preload("PortalCategory.Portal").
		First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDefaultMapping
		}
		return nil, err
	}
	return targetFromMapping(mapping), nil
}

func (r *Resolver) targetsForCategories(categoryIDs []string) ([]Target, error) {
	var mappings []models.CategoryMappingModel
	if err := r.db.Preload("PortalCategory.Portal").
		Where("master_category_id IN ?", categoryIDs).
		Order("created_at ASC").
		Find(&mappings).Error; err != nil {
		return nil, err
	}

	targets := make([]Target, 0, len(mappings))
	for _, m := range mappings {
		if t := targetFromMapping(m); t != nil {
			targets = append(targets, *t)
		}
	}
	return targets, nil
}

func targetFromMapping(m models.CategoryMappingModel) *Target {
	if m.PortalCategory == nil || m.PortalCategory.Portal == nil {
		return nil
	}
	return &Target{
		Portal:         *m.PortalCategory.Portal,
		PortalCategory: *m.PortalCategory,
		Mapping:        m,
	}
}
