package logic

import (
	"context"
	"strings"
	"time"

	"campus-connect/app/event/model"
	"campus-connect/common/ctxdata"
	"campus-connect/common/errorx"
)

// CurrentActor 当前登录用户；匿名请求返回 Unauthorized
func CurrentActor(ctx context.Context) (model.Actor, error) {
	u, ok := ctxdata.GetUserFromCtx(ctx)
	if !ok {
		return model.Actor{}, errorx.ErrUnauthorized()
	}
	return model.Actor{ID: u.UserID, Name: u.Name, PhotoURL: u.PhotoURL, Email: u.Email}, nil
}

// OptionalActor 当前用户，匿名返回 nil
func OptionalActor(ctx context.Context) *model.Actor {
	a, err := CurrentActor(ctx)
	if err != nil {
		return nil
	}
	return &a
}

// RequireOrganizer 只有活动组织者可以继续
func RequireOrganizer(e model.Event, userID string) error {
	if userID == "" || e.OrganizerID != userID {
		return errorx.ErrForbidden()
	}
	return nil
}

// ParseTime 解析 RFC3339 时间，空串返回 nil
func ParseTime(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, errorx.ErrInvalidParams(field + " 需为 RFC3339 时间")
	}
	return &t, nil
}
