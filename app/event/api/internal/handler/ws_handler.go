package handler

import (
	"net/http"

	"campus-connect/app/event/api/internal/svc"
	"campus-connect/common/ctxdata"
	"campus-connect/common/utils/jwt"

	"github.com/zeromicro/go-zero/core/logx"
)

// EventsWebSocketHandler 活动列表实时推送
// 浏览器无法为 WebSocket 设置请求头，令牌可通过 ?token= 传入；校验失败按匿名处理
func EventsWebSocketHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := ctxdata.GetUserIDFromCtx(r.Context())
		if viewer == "" {
			if token := r.URL.Query().Get("token"); token != "" {
				if claims, err := jwt.ParseToken(token, svcCtx.Config.Auth.AccessSecret); err == nil {
					viewer = claims.Identity()
				}
			}
		}

		if err := svcCtx.Hub.Serve(w, r, viewer); err != nil {
			logx.WithContext(r.Context()).Errorf("[WS] 建立连接失败: %v", err)
		}
	}
}
