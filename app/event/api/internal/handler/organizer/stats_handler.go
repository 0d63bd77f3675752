package organizer

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/organizer"
	"campus-connect/app/event/api/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 组织者数据概览
func StatsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := organizer.NewStatsLogic(r.Context(), svcCtx)
		resp, err := l.Stats()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
