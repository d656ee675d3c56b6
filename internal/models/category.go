package models

// MasterCategoryModel is an editorial grouping owned by Recon,
// independent of any portal's own taxonomy.
type MasterCategoryModel struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`

	Mappings []CategoryMappingModel `json:"mappings,omitempty" gorm:"foreignKey:MasterCategoryID"`
}

func (MasterCategoryModel) TableName() string { return "master_categories" }

// CategoryMappingModel associates a master category with a portal category.
type CategoryMappingModel struct {
	Base
	MasterCategoryID string               `json:"master_category_id" gorm:"index:idx_master_portal_cat,unique;not null"`
	MasterCategory   *MasterCategoryModel `json:"master_category,omitempty" gorm:"foreignKey:MasterCategoryID"`
	PortalCategoryID string               `json:"portal_category_id" gorm:"index:idx_master_portal_cat,unique;not null"`
	PortalCategory   *PortalCategoryModel `json:"portal_category,omitempty" gorm:"foreignKey:PortalCategoryID"`

	// UseDefaultContent skips the AI rewrite and sends the master post verbatim.
	UseDefaultContent bool `json:"use_default_content" gorm:"default:false"`
	// IsDefault marks the mapping used when a publish call names no master
	// category. At most one mapping per portal may carry it; exclusivity is
	// maintained by the SetDefault operation, not by a database constraint.
	IsDefault bool `json:"is_default" gorm:"default:false"`
}

func (CategoryMappingModel) TableName() string { return "category_mappings" }

// GroupModel is a named bundle of master categories assigned to users.
type GroupModel struct {
	Base
	Name             string                `json:"name" gorm:"uniqueIndex;not null"`
	MasterCategories []MasterCategoryModel `json:"master_categories,omitempty" gorm:"many2many:group_master_categories"`
}

func (GroupModel) TableName() string { return "groups" }
