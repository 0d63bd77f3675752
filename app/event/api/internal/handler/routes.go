package handler

import (
	"net/http"

	"campus-connect/app/event/api/internal/handler/assistant"
	"campus-connect/app/event/api/internal/handler/club"
	"campus-connect/app/event/api/internal/handler/event"
	"campus-connect/app/event/api/internal/handler/organizer"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/common/middleware"

	"github.com/zeromicro/go-zero/rest"
)

const prefix = "/api/v1"

// RegisterHandlers 注册所有路由
//
// 中间件执行顺序：RequestID -> [Auth | OptionalAuth] -> [RateLimit] -> Handler
func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	// ==================== 全局中间件 ====================
	server.Use(middleware.RequestIDMiddleware)

	// ==================== 公开路由 ====================
	server.AddRoutes(
		[]rest.Route{
			{Method: http.MethodGet, Path: "/health", Handler: HealthHandler(svcCtx)},
			{Method: http.MethodGet, Path: "/events/trending", Handler: event.TrendingEventsHandler(svcCtx)},
			{Method: http.MethodGet, Path: "/clubs", Handler: club.ListClubsHandler(svcCtx)},
		},
		rest.WithPrefix(prefix),
	)

	// ==================== 可匿名访问（携带令牌则识别身份） ====================
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{svcCtx.OptionalAuthMiddleware},
			[]rest.Route{
				{Method: http.MethodGet, Path: "/events", Handler: event.ListEventsHandler(svcCtx)},
				{Method: http.MethodGet, Path: "/events/:id", Handler: event.GetEventHandler(svcCtx)},
				{Method: http.MethodGet, Path: "/ws/events", Handler: EventsWebSocketHandler(svcCtx)},
			}...,
		),
		rest.WithPrefix(prefix),
	)

	// 匿名写接口同样限流（按 IP）
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{svcCtx.OptionalAuthMiddleware, svcCtx.RateLimitMiddleware},
			[]rest.Route{
				{Method: http.MethodPost, Path: "/events/:id/share", Handler: event.ShareEventHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/events/:id/view", Handler: event.RecordViewHandler(svcCtx)},
			}...,
		),
		rest.WithPrefix(prefix),
	)

	// ==================== 需要登录：读接口 ====================
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{svcCtx.AuthMiddleware},
			[]rest.Route{
				{Method: http.MethodGet, Path: "/events/:id/activity", Handler: event.EventActivityHandler(svcCtx)},
				{Method: http.MethodGet, Path: "/organizer/stats", Handler: organizer.StatsHandler(svcCtx)},
				{Method: http.MethodGet, Path: "/organizer/activity", Handler: organizer.RecentActivityHandler(svcCtx)},
			}...,
		),
		rest.WithPrefix(prefix),
	)

	// ==================== 需要登录：写接口 ====================
	server.AddRoutes(
		rest.WithMiddlewares(
			[]rest.Middleware{svcCtx.AuthMiddleware, svcCtx.RateLimitMiddleware},
			[]rest.Route{
				// 活动
				{Method: http.MethodPost, Path: "/events", Handler: event.CreateEventHandler(svcCtx)},
				{Method: http.MethodPut, Path: "/events/:id", Handler: event.UpdateEventHandler(svcCtx)},
				{Method: http.MethodDelete, Path: "/events/:id", Handler: event.DeleteEventHandler(svcCtx)},
				// 互动
				{Method: http.MethodPost, Path: "/events/:id/rsvp", Handler: event.RsvpHandler(svcCtx)},
				{Method: http.MethodDelete, Path: "/events/:id/rsvp", Handler: event.CancelRsvpHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/events/:id/like", Handler: event.LikeHandler(svcCtx)},
				{Method: http.MethodDelete, Path: "/events/:id/like", Handler: event.UnlikeHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/events/:id/save", Handler: event.SaveHandler(svcCtx)},
				{Method: http.MethodDelete, Path: "/events/:id/save", Handler: event.UnsaveHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/events/:id/checkin", Handler: event.CheckInHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/events/:id/comments", Handler: event.AddCommentHandler(svcCtx)},
				// 社团
				{Method: http.MethodPost, Path: "/clubs", Handler: club.CreateClubHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/clubs/:id/members", Handler: club.JoinClubHandler(svcCtx)},
				{Method: http.MethodDelete, Path: "/clubs/:id/members", Handler: club.LeaveClubHandler(svcCtx)},
				// 智能助手
				{Method: http.MethodPost, Path: "/assistant/chat", Handler: assistant.ChatHandler(svcCtx)},
				{Method: http.MethodPost, Path: "/assistant/recommendations", Handler: assistant.RecommendHandler(svcCtx)},
			}...,
		),
		rest.WithPrefix(prefix),
	)
}
