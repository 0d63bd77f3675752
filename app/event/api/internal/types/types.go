package types

import (
	"campus-connect/app/event/cache"
	"campus-connect/app/event/model"
	"campus-connect/app/event/view"
)

// ==================== 活动 ====================

type EventIdReq struct {
	Id string `path:"id"`
}

type ListEventsReq struct {
	Q        string `form:"q,optional"`
	Category string `form:"category,optional"`
	Filter   string `form:"filter,optional"`
	Sort     string `form:"sort,optional"`
	Cursor   string `form:"cursor,optional"`
	PageSize int    `form:"pageSize,optional"`
}

type ListEventsResp struct {
	List       []model.Event `json:"list"`
	NextCursor string        `json:"nextCursor"`
	HasMore    bool          `json:"hasMore"`
	// Loading 镜像尚未收到首个快照
	Loading bool `json:"loading"`
}

type TrendingReq struct {
	Limit int `form:"limit,optional"`
}

type TrendingResp struct {
	List []cache.TrendingItem `json:"list"`
}

// CreateEventReq 时间使用 RFC3339
type CreateEventReq struct {
	Title         string   `json:"title"`
	Description   string   `json:"description,optional"`
	ImageUrl      string   `json:"imageUrl,optional"`
	Category      string   `json:"category,optional"`
	Venue         string   `json:"venue,optional"`
	Tags          []string `json:"tags,optional"`
	ClubId        string   `json:"clubId,optional"`
	EventDate     string   `json:"eventDate"`
	EndDate       string   `json:"endDate,optional"`
	MaxAttendees  int      `json:"maxAttendees,optional"`
	IsPublic      *bool    `json:"isPublic,optional"`
	RsvpOpen      *bool    `json:"rsvpOpen,optional"`
	AllowComments *bool    `json:"allowComments,optional"`
	CheckInCode   string   `json:"checkInCode,optional"`
}

// CreateEventResp 只有组织者能拿到签到码
type CreateEventResp struct {
	Event       model.Event `json:"event"`
	CheckInCode string      `json:"checkInCode"`
}

type UpdateEventReq struct {
	Id            string   `path:"id"`
	Title         *string  `json:"title,optional"`
	Description   *string  `json:"description,optional"`
	ImageUrl      *string  `json:"imageUrl,optional"`
	Category      *string  `json:"category,optional"`
	Venue         *string  `json:"venue,optional"`
	Tags          []string `json:"tags,optional"`
	EventDate     *string  `json:"eventDate,optional"`
	EndDate       *string  `json:"endDate,optional"`
	MaxAttendees  *int     `json:"maxAttendees,optional"`
	IsPublic      *bool    `json:"isPublic,optional"`
	RsvpOpen      *bool    `json:"rsvpOpen,optional"`
	AllowComments *bool    `json:"allowComments,optional"`
	CheckInCode   *string  `json:"checkInCode,optional"`
}

type CheckInReq struct {
	Id   string `path:"id"`
	Code string `json:"code,optional"`
}

type AddCommentReq struct {
	Id   string `path:"id"`
	Text string `json:"text,optional"`
}

type ActivityLogReq struct {
	Id    string `path:"id"`
	Limit int    `form:"limit,optional"`
}

type RecentActivityReq struct {
	Limit int `form:"limit,optional"`
}

type ActivityLogResp struct {
	List []model.ActivityLog `json:"list"`
}

// ActionResp 互动类接口的通用结果
type ActionResp struct {
	Success bool `json:"success"`
}

// ViewResp counted=false 表示窗口期内重复浏览，未计数
type ViewResp struct {
	Counted bool `json:"counted"`
}

type StatsResp struct {
	view.Stats
}

// ==================== 社团 ====================

type ClubIdReq struct {
	Id string `path:"id"`
}

type CreateClubReq struct {
	Name          string `json:"name"`
	Description   string `json:"description,optional"`
	LogoUrl       string `json:"logoUrl,optional"`
	CoverImageUrl string `json:"coverImageUrl,optional"`
	Category      string `json:"category,optional"`
}

type ListClubsResp struct {
	List []model.Club `json:"list"`
}

// ==================== 智能助手 ====================

type ChatReq struct {
	Message string `json:"message,optional"`
	Context string `json:"context,optional"`
}

type ChatResp struct {
	Reply string `json:"reply"`
}

type Profile struct {
	Name      string   `json:"name,optional"`
	Major     string   `json:"major,optional"`
	Year      string   `json:"year,optional"`
	Interests []string `json:"interests,optional"`
}

type RecommendReq struct {
	Profile Profile `json:"profile,optional"`
	// History 已参加活动的标题
	History []string `json:"history,optional"`
}

type RecommendResp struct {
	Titles []string      `json:"titles"`
	Events []model.Event `json:"events"`
}
