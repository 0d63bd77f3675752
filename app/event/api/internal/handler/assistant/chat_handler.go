package assistant

import (
	"net/http"

	"campus-connect/app/event/api/internal/logic/assistant"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/app/event/api/internal/types"
	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 智能助手对话
func ChatHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.ErrInvalidParams(err.Error()))
			return
		}

		l := assistant.NewChatLogic(r.Context(), svcCtx)
		resp, err := l.Chat(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
