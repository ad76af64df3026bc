package models

import "time"

// Profile mirrors the auth user with the journal's own preferences.
// ID equals the subject of the session token.
type Profile struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id" validate:"required"`
	Email       string `gorm:"type:varchar(320);index" json:"email,omitempty"`
	DisplayName string `gorm:"type:varchar(120);index" json:"display_name"`
	IsAdmin     bool   `gorm:"not null;default:false" json:"is_admin"`

	WeeklyReport       bool `gorm:"not null;default:false;index" json:"weekly_report"`
	MonthlyReport      bool `gorm:"not null;default:false;index" json:"monthly_report"`
	QuarterlyReport    bool `gorm:"not null;default:false;index" json:"quarterly_report"`
	YearlyReport       bool `gorm:"not null;default:false;index" json:"yearly_report"`
	AnnouncementsOptIn bool `gorm:"not null;default:false;index" json:"announcements_opt_in"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
