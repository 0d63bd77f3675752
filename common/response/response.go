package response

import (
	"context"
	"net/http"

	"campus-connect/common/errorx"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// FailWithCode 失败响应（指定错误码）
func FailWithCode(w http.ResponseWriter, code int) {
	httpx.WriteJson(w, getHttpStatus(code), &Response{
		Code:    code,
		Message: errorx.GetMessage(code),
	})
}

// getHttpStatus 根据业务错误码映射 HTTP 状态码
func getHttpStatus(code int) int {
	switch code {
	case errorx.CodeSuccess:
		return http.StatusOK
	case errorx.CodeInvalidParams:
		return http.StatusBadRequest
	case errorx.CodeUnauthorized, errorx.CodeLoginRequired, errorx.CodeTokenInvalid, errorx.CodeTokenExpired:
		return http.StatusUnauthorized
	case errorx.CodeForbidden:
		return http.StatusForbidden
	case errorx.CodeEventNotFound, errorx.CodeClubNotFound:
		return http.StatusNotFound
	case errorx.CodeTooManyRequests:
		return http.StatusTooManyRequests
	case errorx.CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		// 其他业务错误返回 200，但 code 非 0
		return http.StatusOK
	}
}

// SetupGlobalErrorHandler 设置 httpx 全局错误处理器
// handler 中 httpx.ErrorCtx 返回的错误统一转为 {code, message}
// 必须在 server.Start() 之前调用
func SetupGlobalErrorHandler() {
	httpx.SetErrorHandlerCtx(func(ctx context.Context, err error) (int, any) {
		bizErr := errorx.FromError(err)
		if bizErr.Code == errorx.CodeInternalError {
			logx.WithContext(ctx).Errorf("[HTTP] 未分类错误: %v", err)
		}
		return getHttpStatus(bizErr.Code), &Response{
			Code:    bizErr.Code,
			Message: bizErr.Message,
		}
	})
}

// SetupGlobalOkHandler 成功响应统一包装为 {code:0, message, data}
func SetupGlobalOkHandler() {
	httpx.SetOkHandler(func(ctx context.Context, v any) any {
		return &Response{
			Code:    errorx.CodeSuccess,
			Message: "success",
			Data:    v,
		}
	})
}
