package handler

import (
	"net/http"
	"time"

	"campus-connect/app/event/api/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

var startTime = time.Now()

// HealthResp 健康检查结果
type HealthResp struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	// Mirror 活动镜像状态：loading / ok / degraded
	Mirror      string `json:"mirror"`
	Connections int    `json:"connections"`
}

// HealthHandler 健康检查接口
// 用途：Kubernetes 探针、负载均衡健康检查。镜像订阅出错不影响存活判断，只体现在 mirror 字段
func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := svcCtx.Events.State()
		mirror := "ok"
		switch {
		case state.Error != "":
			mirror = "degraded"
		case state.Loading:
			mirror = "loading"
		}

		httpx.OkJsonCtx(r.Context(), w, &HealthResp{
			Status:      "healthy",
			Timestamp:   svcCtx.Now().Format(time.RFC3339),
			Uptime:      time.Since(startTime).String(),
			Mirror:      mirror,
			Connections: svcCtx.Hub.OnlineCount(),
		})
	}
}
