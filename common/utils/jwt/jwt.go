// ============================================================================
// JWT 工具
// ============================================================================
//
// 认证服务（托管）签发 HS256 访问令牌，本服务只负责校验并取出用户身份。
// GenerateToken 供本地联调与测试签发令牌。

package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingUserID = errors.New("token missing user id")
)

// Claims 访问令牌载荷
type Claims struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Identity 返回令牌中的用户ID，user_id 为空时回退到 sub
func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}

// AuthConfig 签发配置
type AuthConfig struct {
	Secret string
	Expire int64 // 秒
}

// GenerateToken 签发访问令牌
func GenerateToken(cfg AuthConfig, claims Claims, now time.Time) (string, error) {
	if cfg.Secret == "" || cfg.Expire <= 0 {
		return "", errors.New("invalid auth config")
	}
	if claims.Identity() == "" {
		return "", ErrMissingUserID
	}

	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(cfg.Expire) * time.Second))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ParseToken 校验签名与有效期并返回载荷
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Identity() == "" {
		return nil, ErrMissingUserID
	}
	return claims, nil
}

// IsTokenExpired 判断是否为过期错误
func IsTokenExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
