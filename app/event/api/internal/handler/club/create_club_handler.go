package club

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/club"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 创建社团
func CreateClubHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateClubReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := club.NewCreateClubLogic(r.Context(), svcCtx)
		resp, err := l.CreateClub(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
