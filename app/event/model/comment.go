package model

import "time"

// Comment 活动评论，只追加不修改
type Comment struct {
	ID         string    `bson:"id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	UserName   string    `bson:"userName" json:"userName"`
	UserAvatar string    `bson:"userAvatar,omitempty" json:"userAvatar,omitempty"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	Likes      []string  `bson:"likes" json:"likes"`
}
