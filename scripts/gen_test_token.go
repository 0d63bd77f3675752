// ============================================================================
// 测试 Token 生成脚本
// ============================================================================
//
// 用途：本地联调时签发访问令牌（线上令牌由托管认证服务签发）
// 运行：go run scripts/gen_test_token.go -uid u1001 -name Ada
//
// 密钥读取顺序：-secret 参数 > 环境变量 AUTH_ACCESS_SECRET（支持 .env）
//
// ============================================================================

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"campus-connect/common/utils/jwt"

	"github.com/joho/godotenv"
)

func main() {
	uid := flag.String("uid", "test-user", "用户ID")
	name := flag.String("name", "Test User", "显示名称")
	email := flag.String("email", "", "邮箱")
	secret := flag.String("secret", "", "签名密钥")
	expire := flag.Duration("expire", 7*24*time.Hour, "有效期")
	flag.Parse()

	_ = godotenv.Load()
	if *secret == "" {
		*secret = os.Getenv("AUTH_ACCESS_SECRET")
	}
	if *secret == "" {
		fmt.Fprintln(os.Stderr, "缺少签名密钥：使用 -secret 或设置 AUTH_ACCESS_SECRET")
		os.Exit(1)
	}

	now := time.Now()
	token, err := jwt.GenerateToken(
		jwt.AuthConfig{Secret: *secret, Expire: int64(expire.Seconds())},
		jwt.Claims{UserID: *uid, Name: *name, Email: *email},
		now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "生成 Token 失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("============================================")
	fmt.Printf("用户ID: %s\n", *uid)
	fmt.Printf("过期时间: %s\n", now.Add(*expire).Format("2006-01-02 15:04:05"))
	fmt.Println("--------------------------------------------")
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println("============================================")
}
