package models

import "time"

// Distribution lifecycle statuses.
const (
	DistributionPending = "PENDING"
	DistributionSuccess = "SUCCESS"
	DistributionFailed  = "FAILED"
)

// DistributionRecordModel is the ledger entry for one (post, portal) pair.
// The composite unique index keeps at most one row per pair; re-publish
// attempts update the row in place and increment RetryCount.
type DistributionRecordModel struct {
	Base
	PostID   string           `json:"post_id"   gorm:"index:idx_post_portal,unique;not null"`
	Post     *MasterPostModel `json:"post,omitempty" gorm:"foreignKey:PostID"`
	PortalID string           `json:"portal_id" gorm:"index:idx_post_portal,unique;not null"`
	Portal   *PortalModel     `json:"portal,omitempty" gorm:"foreignKey:PortalID"`

	PortalCategoryID *string              `json:"portal_category_id"`
	PortalCategory   *PortalCategoryModel `json:"portal_category,omitempty" gorm:"foreignKey:PortalCategoryID"`
	MasterCategoryID *string              `json:"master_category_id"`
	MasterCategory   *MasterCategoryModel `json:"master_category,omitempty" gorm:"foreignKey:MasterCategoryID"`

	// The variant actually sent to the portal.
	VariantTitle            string `json:"variant_title"`
	VariantShortDescription string `json:"variant_short_description" gorm:"size:300"`
	VariantContent          string `json:"variant_content"           gorm:"type:longtext"`
	VariantMetaTitle        string `json:"variant_meta_title"`
	VariantSlug             string `json:"variant_slug"`

	Status          string     `json:"status" gorm:"size:20;default:PENDING;index"`
	ResponseMessage string     `json:"response_message" gorm:"type:longtext"`
	RetryCount      int        `json:"retry_count" gorm:"default:0"`
	SentAt          *time.Time `json:"sent_at"`
}

func (DistributionRecordModel) TableName() string { return "distribution_records" }
