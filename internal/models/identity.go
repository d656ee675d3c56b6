package models

// Portal identity mapping statuses.
const (
	MappingMatched  = "MATCHED"
	MappingPending  = "PENDING"
	MappingMismatch = "MISMATCH"
)

// PortalUserMappingModel maps a Recon user to their account inside one portal.
// Matching is resolved by an asynchronous background check; the dispatcher only
// consumes MATCHED rows.
type PortalUserMappingModel struct {
	Base
	UserID   string       `json:"user_id"   gorm:"index:idx_user_portal,unique;not null"`
	User     *UserModel   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	PortalID string       `json:"portal_id" gorm:"index:idx_user_portal,unique;not null"`
	Portal   *PortalModel `json:"portal,omitempty" gorm:"foreignKey:PortalID"`

	PortalUserID   string `json:"portal_user_id"`
	PortalUsername string `json:"portal_username"`
	Status         string `json:"status" gorm:"size:20;default:PENDING;index"`
	Notes          string `json:"notes"`
}

func (PortalUserMappingModel) TableName() string { return "portal_user_mappings" }
