package models

// PortalModel is an external news portal that receives distributed content.
// The credential pair is opaque to the engine and only forwarded by transport.
type PortalModel struct {
	Base
	Name      string `json:"name"     gorm:"uniqueIndex;not null"`
	BaseURL   string `json:"base_url" gorm:"not null"`
	APIKey    string `json:"-"        gorm:"not null"`
	SecretKey string `json:"-"        gorm:"not null"`
	// Domain, when set, is used to build the public live URL of a published post.
	Domain  string `json:"domain"`
	Enabled bool   `json:"enabled" gorm:"default:true"`

	Categories []PortalCategoryModel `json:"categories,omitempty" gorm:"foreignKey:PortalID"`
}

func (PortalModel) TableName() string { return "portals" }

// PortalCategoryModel is a category as known inside one portal.
// ExternalID is the portal's own category identifier, unique within a portal.
type PortalCategoryModel struct {
	Base
	PortalID   string       `json:"portal_id"   gorm:"index:idx_portal_external,unique;not null"`
	Portal     *PortalModel `json:"portal,omitempty" gorm:"foreignKey:PortalID"`
	Name       string       `json:"name"        gorm:"not null"`
	ExternalID string       `json:"external_id" gorm:"index:idx_portal_external,unique;not null"`
	// ParentID mirrors the portal's own taxonomy when it is hierarchical.
	ParentID *string `json:"parent_id" gorm:"index"`
}

func (PortalCategoryModel) TableName() string { return "portal_categories" }

// PortalPromptModel steers the AI rewrite style for one portal.
// A row with a NULL portal is the global fallback; at most one enabled
// global prompt is consulted when no portal-specific one exists.
type PortalPromptModel struct {
	Base
	PortalID *string      `json:"portal_id" gorm:"uniqueIndex"`
	Portal   *PortalModel `json:"portal,omitempty" gorm:"foreignKey:PortalID"`
	Text     string       `json:"text"      gorm:"type:longtext;not null"`
	Enabled  bool         `json:"enabled"   gorm:"default:true"`
}

func (PortalPromptModel) TableName() string { return "portal_prompts" }
