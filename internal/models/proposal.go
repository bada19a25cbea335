package models

// ProjectProposal is a partnership/project idea submitted by an outside organisation.
type ProjectProposal struct {
	Base
	OrganizationName string  `json:"organization_name" gorm:"not null"            binding:"required,max=200"`
	ContactName      string  `json:"contact_name"      gorm:"not null"            binding:"required,max=200"`
	Email            string  `json:"email"             gorm:"size:191;index;not null" binding:"required,email"`
	Phone            string  `json:"phone"                                       binding:"omitempty,max=50"`
	Title            string  `json:"title"             gorm:"not null"            binding:"required,max=300"`
	Description      string  `json:"description"       gorm:"type:text;not null"  binding:"required"`
	Budget           float64 `json:"budget"                                      binding:"omitempty,gte=0"`
	Timeline         string  `json:"timeline"`
	Status           string  `json:"status"            gorm:"size:32;default:'pending';index" binding:"omitempty,oneof=pending reviewing approved rejected"`
	AdminNotes       string  `json:"admin_notes"       gorm:"type:text"`
}

func (ProjectProposal) TableName() string { return "project_proposals" }

func (p *ProjectProposal) ApplyDefaults() { defaultString(&p.Status, StatusPending) }
