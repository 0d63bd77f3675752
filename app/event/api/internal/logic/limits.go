package logic

import (
	"campus-connect/common/utils/validate"
)

// 字段长度限制
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 5000
	MaxVenueLen       = 200
	MaxCategoryLen    = 50
	MaxTags           = 10
	MaxTagLen         = 30
	MaxCommentLen     = 1000
	MaxMessageLen     = 2000
)

// EventFields 创建与更新共用的活动字段校验，nil 表示不校验该字段
type EventFields struct {
	Title       *string
	Description *string
	Venue       *string
	Category    *string
	ImageURL    *string
	Tags        []string
}

// Validate 校验活动字段长度与格式
func (f EventFields) Validate() error {
	c := validate.New()
	if f.Title != nil {
		c.MaxLength("title", *f.Title, MaxTitleLen)
	}
	if f.Description != nil {
		c.MaxLength("description", *f.Description, MaxDescriptionLen)
	}
	if f.Venue != nil {
		c.MaxLength("venue", *f.Venue, MaxVenueLen)
	}
	if f.Category != nil {
		c.MaxLength("category", *f.Category, MaxCategoryLen)
	}
	if f.ImageURL != nil {
		c.URL("imageUrl", *f.ImageURL)
	}
	if f.Tags != nil {
		c.Tags("tags", f.Tags, MaxTags, MaxTagLen)
	}
	return c.Err()
}
