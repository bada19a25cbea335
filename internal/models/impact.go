package models

import "time"

// ImpactProject is a funded programme with a funding goal and a timeline.
type ImpactProject struct {
	Base
	Title       string     `json:"title"        gorm:"not null"                      binding:"required,max=300"`
	Slug        string     `json:"slug"         gorm:"size:191;uniqueIndex;not null" binding:"omitempty,max=191"`
	Summary     string     `json:"summary"      gorm:"type:text"`
	Description string     `json:"description"  gorm:"type:text"`
	Location    string     `json:"location"`
	Status      string     `json:"status"       gorm:"size:32;default:'active';index" binding:"omitempty,oneof=planned active completed paused"`
	FundingGoal float64    `json:"funding_goal"                                       binding:"omitempty,gte=0"`
	FundsRaised float64    `json:"funds_raised"                                       binding:"omitempty,gte=0"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	ImageURL    string     `json:"image_url"`

	Timeline []TimelineEvent `json:"timeline,omitempty" gorm:"-"`
}

func (ImpactProject) TableName() string { return "impact_projects" }

func (p *ImpactProject) ApplyDefaults() { defaultString(&p.Status, StatusActive) }

// TimelineEvent is a dated milestone of an impact project.
type TimelineEvent struct {
	Base
	ProjectID   uint      `json:"project_id"  gorm:"index;not null" binding:"required"`
	Title       string    `json:"title"       gorm:"not null"       binding:"required,max=300"`
	Description string    `json:"description" gorm:"type:text"`
	EventDate   time.Time `json:"event_date"  gorm:"index"          binding:"required"`
	SortOrder   int       `json:"sort_order"  gorm:"default:0"`
}

func (TimelineEvent) TableName() string { return "timeline_events" }
