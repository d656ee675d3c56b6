package models

import "time"

// UserModel represents an editorial user of Recon.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Email         string     `json:"email"    gorm:"index"`
	Password      string     `json:"-"        gorm:"not null"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`

	PortalMappings []PortalUserMappingModel `json:"portal_mappings,omitempty" gorm:"foreignKey:UserID"`
	Assignments    []UserAssignmentModel    `json:"assignments,omitempty"     gorm:"foreignKey:UserID"`
}

func (UserModel) TableName() string { return "users" }
