package model

import "time"

// Club 社团（集合 clubs），memberCount 恒等于 len(members)
type Club struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Description   string    `bson:"description" json:"description"`
	LogoURL       string    `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	CoverImageURL string    `bson:"coverImageUrl,omitempty" json:"coverImageUrl,omitempty"`
	Category      string    `bson:"category" json:"category"`
	CreatedBy     string    `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	Members       []string  `bson:"members" json:"members"`
	MemberCount   int       `bson:"memberCount" json:"memberCount"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
}

const (
	FieldClubMembers     = "members"
	FieldClubMemberCount = "memberCount"
	FieldClubIsActive    = "isActive"
	FieldClubCreatedAt   = "createdAt"
)
