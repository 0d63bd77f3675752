package club

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/club"
	"campus-connect/app/event/api/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 社团列表
func ListClubsHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := club.NewListClubsLogic(r.Context(), svcCtx)
		resp, err := l.ListClubs()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
