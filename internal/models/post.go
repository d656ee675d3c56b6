package models

import "time"

// MasterPostModel is the canonical content unit created inside Recon.
// Optional feature flags use pointers: nil means "not set", and the
// dispatcher coerces them to the portal wire form at the transport boundary.
type MasterPostModel struct {
	Base
	CreatedByID string     `json:"created_by_id" gorm:"index;not null"`
	CreatedBy   *UserModel `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`

	Title            string `json:"title"             gorm:"not null"`
	ShortDescription string `json:"short_description" gorm:"size:300;not null"`
	Content          string `json:"content"           gorm:"type:longtext;not null"`
	ImageURL         string `json:"image_url"`
	PostTag          string `json:"post_tag"`

	IsActive      *bool `json:"is_active"`
	LatestNews    *bool `json:"latest_news"`
	UpcomingEvent *bool `json:"upcoming_event"`
	HeadLines     *bool `json:"head_lines"`
	Articles      *bool `json:"articles"`
	Trending      *bool `json:"trending"`
	BreakingNews  *bool `json:"breaking_news"`
	Event         *bool `json:"event"`

	EventDate    *time.Time `json:"event_date"`
	EventEndDate *time.Time `json:"event_end_date"`
	ScheduleDate *time.Time `json:"schedule_date"`
	Counter      *int       `json:"counter"`

	Distributions []DistributionRecordModel `json:"distributions,omitempty" gorm:"foreignKey:PostID"`
}

func (MasterPostModel) TableName() string { return "master_posts" }
