package middleware

import (
	"net/http"
	"strings"

	"campus-connect/common/ctxdata"
	"campus-connect/common/errorx"
	"campus-connect/common/response"
	"campus-connect/common/utils/jwt"

	"github.com/zeromicro/go-zero/core/logx"
)

// AuthMiddleware JWT 认证中间件
// optional=true 时匿名请求直接放行（如分享、浏览），携带了令牌则照常解析
type AuthMiddleware struct {
	accessSecret string
	optional     bool
}

// NewAuthMiddleware 创建必须登录的认证中间件
func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{accessSecret: accessSecret}
}

// NewOptionalAuthMiddleware 创建可匿名的认证中间件
func NewOptionalAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{accessSecret: accessSecret, optional: true}
}

// Handle 处理认证逻辑
func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 1. 获取 Authorization 头
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			if m.optional {
				next(w, r)
				return
			}
			response.FailWithCode(w, errorx.CodeLoginRequired)
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.FailWithCode(w, errorx.CodeTokenInvalid)
			return
		}

		// 3. 校验 Token
		claims, err := jwt.ParseToken(parts[1], m.accessSecret)
		if err != nil {
			if jwt.IsTokenExpired(err) {
				response.FailWithCode(w, errorx.CodeTokenExpired)
				return
			}
			logx.WithContext(r.Context()).Infof("[Auth] token 校验失败: %v", err)
			response.FailWithCode(w, errorx.CodeTokenInvalid)
			return
		}

		// 4. 将用户身份注入上下文
		ctx := ctxdata.WithUser(r.Context(), ctxdata.UserInfo{
			UserID:   claims.Identity(),
			Name:     claims.Name,
			PhotoURL: claims.Picture,
			Email:    claims.Email,
		})
		ctx = logx.ContextWithFields(ctx, logx.Field("uid", claims.Identity()))

		next(w, r.WithContext(ctx))
	}
}
