package models

import "time"

// CaseStudy is a long-form write-up of a completed piece of work.
type CaseStudy struct {
	Base
	Title     string `json:"title"     gorm:"not null"                      binding:"required,max=300"`
	Slug      string `json:"slug"      gorm:"size:191;uniqueIndex;not null" binding:"omitempty,max=191"`
	Summary   string `json:"summary"   gorm:"type:text"`
	Content   string `json:"content"   gorm:"type:text"`
	Client    string `json:"client"`
	Sector    string `json:"sector"    gorm:"size:100;index"`
	Outcome   string `json:"outcome"   gorm:"type:text"`
	ImageURL  string `json:"image_url"`
	Published bool   `json:"published" gorm:"default:false;index"`
}

func (CaseStudy) TableName() string { return "case_studies" }

// Publication is a downloadable report or paper.
type Publication struct {
	Base
	Title       string     `json:"title"        gorm:"not null"                      binding:"required,max=300"`
	Slug        string     `json:"slug"         gorm:"size:191;uniqueIndex;not null" binding:"omitempty,max=191"`
	Type        string     `json:"type"         gorm:"size:32;default:'report'"      binding:"omitempty,oneof=report paper guide policy"`
	Abstract    string     `json:"abstract"     gorm:"type:text"`
	Authors     string     `json:"authors"`
	FileURL     string     `json:"file_url"                                          binding:"omitempty,url"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
}

func (Publication) TableName() string { return "publications" }

// ApplyDefaults dates an undated publication at insert time.
func (p *Publication) ApplyDefaults() {
	defaultString(&p.Type, "report")
	if p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
}
