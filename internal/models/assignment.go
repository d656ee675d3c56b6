package models

// UserAssignmentModel grants a user either one group or one master category.
// Exactly one of GroupID / MasterCategoryID is set per row; a user may hold
// many assignment rows.
type UserAssignmentModel struct {
	Base
	UserID           string               `json:"user_id" gorm:"index;not null"`
	User             *UserModel           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	GroupID          *string              `json:"group_id" gorm:"index"`
	Group            *GroupModel          `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	MasterCategoryID *string              `json:"master_category_id" gorm:"index"`
	MasterCategory   *MasterCategoryModel `json:"master_category,omitempty" gorm:"foreignKey:MasterCategoryID"`
}

func (UserAssignmentModel) TableName() string { return "user_assignments" }
