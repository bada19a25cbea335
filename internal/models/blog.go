package models

import "time"

// BlogPost is a markdown article.
type BlogPost struct {
	Base
	Title       string     `json:"title"        gorm:"not null"                   binding:"required,max=300"`
	Slug        string     `json:"slug"         gorm:"size:191;uniqueIndex;not null" binding:"omitempty,max=191"`
	Excerpt     string     `json:"excerpt"      gorm:"type:text"`
	Content     string     `json:"content"      gorm:"type:text"`
	Author      string     `json:"author"`
	CoverImage  string     `json:"cover_image"`
	Category    string     `json:"category"     gorm:"size:100;index"`
	Tags        []string   `json:"tags"         gorm:"type:text;serializer:json"`
	Published   bool       `json:"published"    gorm:"default:false;index"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`

	ContentHTML string `json:"content_html,omitempty" gorm:"-"`
}

func (BlogPost) TableName() string { return "blog_posts" }
