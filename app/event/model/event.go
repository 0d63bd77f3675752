package model

import (
	"time"
)

// ==================== Event 活动模型 ====================

// Event 活动文档（集合 events）
//
// 集合字段（rsvp/likes/saves/checkedInAttendees）为用户ID集合，
// 写入时始终初始化为空数组，避免 $addToSet 作用于 null 字段。
type Event struct {
	ID          string   `bson:"_id,omitempty" json:"id"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	ImageURL    string   `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Category    string   `bson:"category" json:"category"`
	Venue       string   `bson:"venue" json:"venue"`
	Tags        []string `bson:"tags" json:"tags"`
	ClubID      string   `bson:"clubId,omitempty" json:"clubId,omitempty"`

	// 组织者信息（冗余存储，避免额外查询）
	OrganizerID string    `bson:"organizerId" json:"organizerId"`
	Organizer   Organizer `bson:"organizer" json:"organizer"`

	// 时间
	EventDate time.Time  `bson:"eventDate" json:"eventDate"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`

	// 互动集合
	RSVP               []string  `bson:"rsvp" json:"rsvp"`
	Likes              []string  `bson:"likes" json:"likes"`
	Saves              []string  `bson:"saves" json:"saves"`
	CheckedInAttendees []string  `bson:"checkedInAttendees" json:"checkedInAttendees"`
	Comments           []Comment `bson:"comments" json:"comments"`

	// 计数（currentAttendees 恒等于 len(rsvp)）
	CurrentAttendees int `bson:"currentAttendees" json:"currentAttendees"`
	MaxAttendees     int `bson:"maxAttendees" json:"maxAttendees"` // 0 = 不限
	ShareCount       int `bson:"shareCount" json:"shareCount"`
	ViewCount        int `bson:"viewCount" json:"viewCount"`

	// 开关
	IsPublic      bool `bson:"isPublic" json:"isPublic"`
	RSVPOpen      bool `bson:"rsvpOpen" json:"rsvpOpen"`
	AllowComments bool `bson:"allowComments" json:"allowComments"`
	Trending      bool `bson:"trending" json:"trending"`
	Featured      bool `bson:"featured" json:"featured"`

	// CheckInCode 签到码（二维码内容），只对组织者可见
	CheckInCode string `bson:"qrCode" json:"-"`

	// 按访问者计算，不落库
	UserHasRSVPd     bool `bson:"-" json:"userHasRsvpd"`
	UserHasLiked     bool `bson:"-" json:"userHasLiked"`
	UserHasSaved     bool `bson:"-" json:"userHasSaved"`
	UserHasCheckedIn bool `bson:"-" json:"userHasCheckedIn"`
}

// Organizer 组织者展示信息
type Organizer struct {
	Name      string `bson:"name" json:"name"`
	AvatarURL string `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
}

// 字段名（bson），供存储层 Mutation/Query 使用
const (
	FieldRSVP               = "rsvp"
	FieldLikes              = "likes"
	FieldSaves              = "saves"
	FieldCheckedInAttendees = "checkedInAttendees"
	FieldComments           = "comments"
	FieldCurrentAttendees   = "currentAttendees"
	FieldShareCount         = "shareCount"
	FieldViewCount          = "viewCount"
	FieldUpdatedAt          = "updatedAt"
	FieldEventDate          = "eventDate"
	FieldIsPublic           = "isPublic"
	FieldOrganizerID        = "organizerId"
)

// HasCapacityLimit 是否设置了人数上限
func (e *Event) HasCapacityLimit() bool {
	return e.MaxAttendees > 0
}

// IsFull 报名人数是否已达上限
func (e *Event) IsFull() bool {
	return e.HasCapacityLimit() && len(e.RSVP) >= e.MaxAttendees
}

// IsUpcoming 活动是否尚未开始
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.EventDate.After(now)
}

// Normalize 把 nil 集合替换为空切片
func (e *Event) Normalize() {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.RSVP == nil {
		e.RSVP = []string{}
	}
	if e.Likes == nil {
		e.Likes = []string{}
	}
	if e.Saves == nil {
		e.Saves = []string{}
	}
	if e.CheckedInAttendees == nil {
		e.CheckedInAttendees = []string{}
	}
	if e.Comments == nil {
		e.Comments = []Comment{}
	}
}

// Clone 深拷贝，乐观更新时先拷贝再修改，避免与订阅者共享切片
func (e Event) Clone() Event {
	out := e
	out.Tags = append([]string(nil), e.Tags...)
	out.RSVP = append([]string(nil), e.RSVP...)
	out.Likes = append([]string(nil), e.Likes...)
	out.Saves = append([]string(nil), e.Saves...)
	out.CheckedInAttendees = append([]string(nil), e.CheckedInAttendees...)
	out.Comments = make([]Comment, len(e.Comments))
	for i, c := range e.Comments {
		c.Likes = append([]string(nil), c.Likes...)
		out.Comments[i] = c
	}
	if e.EndDate != nil {
		end := *e.EndDate
		out.EndDate = &end
	}
	out.Normalize()
	return out
}

// ForViewer 计算访问者相关字段，返回副本
func (e Event) ForViewer(userID string) Event {
	e.UserHasRSVPd = userID != "" && Contains(e.RSVP, userID)
	e.UserHasLiked = userID != "" && Contains(e.Likes, userID)
	e.UserHasSaved = userID != "" && Contains(e.Saves, userID)
	e.UserHasCheckedIn = userID != "" && Contains(e.CheckedInAttendees, userID)
	return e
}

// Contains 集合成员判断
func Contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// AddToSet 集合添加（已存在则不变）
func AddToSet(set []string, v string) []string {
	if Contains(set, v) {
		return set
	}
	return append(set, v)
}

// RemoveFromSet 集合移除
func RemoveFromSet(set []string, v string) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
