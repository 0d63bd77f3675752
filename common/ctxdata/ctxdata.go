package ctxdata

import (
	"context"
)

// 定义上下文 key 类型，避免冲突
type contextKey string

const (
	// CtxKeyUserID 用户ID在上下文中的key
	CtxKeyUserID contextKey = "userId"
	// CtxKeyUserName 显示名称
	CtxKeyUserName contextKey = "userName"
	// CtxKeyUserPhoto 头像 URL
	CtxKeyUserPhoto contextKey = "userPhoto"
	// CtxKeyEmail 邮箱
	CtxKeyEmail contextKey = "email"
)

// UserInfo 认证服务签发的用户身份
type UserInfo struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
	Email    string `json:"email"`
}

// WithUser 将用户身份注入上下文
func WithUser(ctx context.Context, u UserInfo) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, u.UserID)
	ctx = context.WithValue(ctx, CtxKeyUserName, u.Name)
	ctx = context.WithValue(ctx, CtxKeyUserPhoto, u.PhotoURL)
	ctx = context.WithValue(ctx, CtxKeyEmail, u.Email)
	return ctx
}

// GetUserIDFromCtx 从上下文中获取用户ID，未登录返回空串
func GetUserIDFromCtx(ctx context.Context) string {
	return stringValue(ctx, CtxKeyUserID)
}

// GetUserFromCtx 从上下文中获取完整用户身份
// ok=false 表示匿名请求
func GetUserFromCtx(ctx context.Context) (UserInfo, bool) {
	uid := GetUserIDFromCtx(ctx)
	if uid == "" {
		return UserInfo{}, false
	}
	return UserInfo{
		UserID:   uid,
		Name:     stringValue(ctx, CtxKeyUserName),
		PhotoURL: stringValue(ctx, CtxKeyUserPhoto),
		Email:    stringValue(ctx, CtxKeyEmail),
	}, true
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
