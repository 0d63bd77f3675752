package model

import "time"

// EventPatch 活动部分更新，nil 字段表示不修改
type EventPatch struct {
	Title         *string
	Description   *string
	ImageURL      *string
	Category      *string
	Venue         *string
	Tags          []string
	EventDate     *time.Time
	EndDate       *time.Time
	MaxAttendees  *int
	IsPublic      *bool
	RSVPOpen      *bool
	AllowComments *bool
	Trending      *bool
	Featured      *bool
	CheckInCode   *string
}

// Fields 转为 bson 字段名 -> 值
func (p EventPatch) Fields() map[string]any {
	out := map[string]any{}
	setIf(out, "title", p.Title)
	setIf(out, "description", p.Description)
	setIf(out, "imageUrl", p.ImageURL)
	setIf(out, "category", p.Category)
	setIf(out, "venue", p.Venue)
	if p.Tags != nil {
		out["tags"] = p.Tags
	}
	setIf(out, "eventDate", p.EventDate)
	setIf(out, "endDate", p.EndDate)
	setIf(out, "maxAttendees", p.MaxAttendees)
	setIf(out, "isPublic", p.IsPublic)
	setIf(out, "rsvpOpen", p.RSVPOpen)
	setIf(out, "allowComments", p.AllowComments)
	setIf(out, "trending", p.Trending)
	setIf(out, "featured", p.Featured)
	setIf(out, "qrCode", p.CheckInCode)
	return out
}

// Apply 把补丁应用到活动副本上（用于本地乐观更新）
func (p EventPatch) Apply(e *Event) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), p.Tags...)
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.EndDate != nil {
		end := *p.EndDate
		e.EndDate = &end
	}
	if p.MaxAttendees != nil {
		e.MaxAttendees = *p.MaxAttendees
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}
	if p.RSVPOpen != nil {
		e.RSVPOpen = *p.RSVPOpen
	}
	if p.AllowComments != nil {
		e.AllowComments = *p.AllowComments
	}
	if p.Trending != nil {
		e.Trending = *p.Trending
	}
	if p.Featured != nil {
		e.Featured = *p.Featured
	}
	if p.CheckInCode != nil {
		e.CheckInCode = *p.CheckInCode
	}
}

func setIf[T any](m map[string]any, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}
