package assistant

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/assistant"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 个性化推荐
func RecommendHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RecommendReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := assistant.NewRecommendLogic(r.Context(), svcCtx)
		resp, err := l.Recommend(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
