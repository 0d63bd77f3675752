package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware 为每个请求分配请求ID，并挂到 logx 上下文字段
// 客户端传入的 X-Request-ID 会被沿用
func RequestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logx.ContextWithFields(r.Context(), logx.Field("requestId", requestID))
		next(w, r.WithContext(ctx))
	}
}
