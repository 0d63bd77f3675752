package club

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/club"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 加入社团
func JoinClubHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ClubIdReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := club.NewMembershipLogic(r.Context(), svcCtx)
		resp, err := l.Join(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}

// 退出社团
func LeaveClubHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ClubIdReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := club.NewMembershipLogic(r.Context(), svcCtx)
		resp, err := l.Leave(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
