package model

import "time"

// Action 活动日志动作类型
type Action string

const (
	ActionRSVP       Action = "rsvp"
	ActionCancelRSVP Action = "cancel_rsvp"
	ActionLike       Action = "like"
	ActionUnlike     Action = "unlike"
	ActionSave       Action = "save"
	ActionUnsave     Action = "unsave"
	ActionComment    Action = "comment"
	ActionShare      Action = "share"
	ActionCheckIn    Action = "checkin"
)

// ActivityLog 互动日志（集合 activityLogs），写入后不再修改，
// 仅随所属活动一起删除
type ActivityLog struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	EventID    string    `bson:"eventId" json:"eventId"`
	EventTitle string    `bson:"eventTitle" json:"eventTitle"`
	UserID     string    `bson:"userId" json:"userId"`
	UserName   string    `bson:"userName" json:"userName"`
	UserPhoto  string    `bson:"userPhoto,omitempty" json:"userPhoto,omitempty"`
	Action     Action    `bson:"action" json:"action"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	Details    string    `bson:"details,omitempty" json:"details,omitempty"`
}

const (
	FieldLogEventID   = "eventId"
	FieldLogTimestamp = "timestamp"
)
