package models

// Service is an offering shown on the services page.
type Service struct {
	Base
	Title       string `json:"title"       gorm:"not null"                   binding:"required,max=200"`
	Slug        string `json:"slug"        gorm:"size:191;uniqueIndex;not null" binding:"omitempty,max=191"`
	Summary     string `json:"summary"                                       binding:"omitempty,max=500"`
	Description string `json:"description" gorm:"type:text"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"  gorm:"default:0"`
	IsActive    *bool  `json:"is_active"   gorm:"default:true"`
}

func (Service) TableName() string { return "services" }

func (s *Service) ApplyDefaults() { defaultBool(&s.IsActive, true) }

// Testimonial is a quote from a beneficiary or partner.
type Testimonial struct {
	Base
	Name         string `json:"name"         gorm:"not null"          binding:"required,max=200"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Quote        string `json:"quote"        gorm:"type:text;not null" binding:"required"`
	ImageURL     string `json:"image_url"                             binding:"omitempty,url"`
	Rating       int    `json:"rating"                                binding:"omitempty,min=1,max=5"`
	IsPublished  *bool  `json:"is_published" gorm:"default:true"`
}

func (Testimonial) TableName() string { return "testimonials" }

func (t *Testimonial) ApplyDefaults() { defaultBool(&t.IsPublished, true) }

// ImpactMetric is a headline number on the impact page.
type ImpactMetric struct {
	Base
	Label       string  `json:"label"       gorm:"not null" binding:"required,max=200"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Category    string  `json:"category"    gorm:"size:100;index"`
	Description string  `json:"description" gorm:"type:text"`
	Year        int     `json:"year"                        binding:"omitempty,min=1900,max=2200"`
	SortOrder   int     `json:"sort_order"  gorm:"default:0"`
}

func (ImpactMetric) TableName() string { return "impact_metrics" }

// Partner is a supporting organisation shown in the partners strip.
type Partner struct {
	Base
	Name        string `json:"name"        gorm:"not null" binding:"required,max=200"`
	LogoURL     string `json:"logo_url"                    binding:"omitempty,url"`
	Website     string `json:"website"                     binding:"omitempty,url"`
	Description string `json:"description" gorm:"type:text"`
	SortOrder   int    `json:"sort_order"  gorm:"default:0"`
}

func (Partner) TableName() string { return "partners" }

// FAQ is a question/answer pair.
type FAQ struct {
	Base
	Question    string `json:"question"     gorm:"type:text;not null" binding:"required"`
	Answer      string `json:"answer"       gorm:"type:text;not null" binding:"required"`
	Category    string `json:"category"     gorm:"size:100;index"`
	SortOrder   int    `json:"sort_order"   gorm:"default:0"`
	IsPublished *bool  `json:"is_published" gorm:"default:true"`
}

func (FAQ) TableName() string { return "faqs" }

func (f *FAQ) ApplyDefaults() { defaultBool(&f.IsPublished, true) }

// Setting is a site-wide key/value pair. Public settings are exposed to the SPA.
type Setting struct {
	Base
	Key         string `json:"key"         gorm:"size:191;uniqueIndex;not null" binding:"required,max=191"`
	Value       string `json:"value"       gorm:"type:text"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"   gorm:"default:false"`
}

func (Setting) TableName() string { return "settings" }

func defaultBool(v **bool, def bool) {
	if *v == nil {
		b := def
		*v = &b
	}
}

// Enabled dereferences an optional flag, treating nil as false.
func Enabled(v *bool) bool { return v != nil && *v }
