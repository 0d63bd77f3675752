// ============================================================================
// 校园活动服务入口
// ============================================================================
//
// 功能说明：
//   - 活动的增删改查与互动（报名、点赞、收藏、签到、评论、分享）
//   - 公开活动的本地镜像与 WebSocket 实时推送
//   - 社团、组织者数据概览、智能助手
//   - 互动消息驱动的热门缓存失效
//
// 启动命令：
//   go run events.go -f etc/events-api.yaml
//
// ============================================================================

package main

import (
	"flag"
	"fmt"
	"net/http"

	"campus-connect/app/event/api/internal/config"
	"campus-connect/app/event/api/internal/handler"
	"campus-connect/app/event/api/internal/svc"
	"campus-connect/common/response"

	"github.com/joho/godotenv"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/service"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/events-api.yaml", "配置文件路径")

func main() {
	flag.Parse()

	// ==================== 1. 加载配置 ====================
	// .env 只用于本地开发，不存在时忽略
	_ = godotenv.Load()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	// ==================== 2. 创建 REST 服务器 ====================
	opts := []rest.RunOption{rest.WithNotFoundHandler(notFoundHandler())}
	if len(c.Cors.AllowOrigins) > 0 {
		opts = append(opts, rest.WithCors(c.Cors.AllowOrigins...))
	}
	server := rest.MustNewServer(c.RestConf, opts...)

	// ==================== 3. 初始化服务上下文 ====================
	svcCtx := svc.NewServiceContext(c)
	defer svcCtx.Close()

	// 统一响应格式 {code, message, data}
	response.SetupGlobalErrorHandler()
	response.SetupGlobalOkHandler()

	// ==================== 4. 注册路由 ====================
	handler.RegisterHandlers(server, svcCtx)

	// ==================== 5. 启动服务 ====================
	group := service.NewServiceGroup()
	defer group.Stop()

	group.Add(server)
	for _, s := range svcCtx.Background() {
		group.Add(s)
	}

	logx.Infof("[Main] 活动服务启动: store=%s, redis=%v, messaging=%s",
		c.Store.Driver, c.RedisEnabled(), c.Messaging.Driver)
	fmt.Printf("Starting events api at %s:%d...\n", c.Host, c.Port)
	group.Start()
}

// notFoundHandler 404 处理
func notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":1004,"message":"接口不存在"}`))
	}
}
