package event

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/event"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 发表评论
func AddCommentHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.AddCommentReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := event.NewAddCommentLogic(r.Context(), svcCtx)
		resp, err := l.AddComment(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
