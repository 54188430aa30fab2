package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/auth"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/config"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/metrics"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/mw"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/service"
	"github.com/anburocky3/mugamili-anonymous-messaging-app/internal/ws"
)

// SetupRouter 统一初始化 Gin 中间件、REST API 以及房间事件流端点。
func SetupRouter(cfg config.Config, roomSvc *service.RoomService, msgSvc *service.MessageService, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())
	r.Use(mw.CORS(cfg.Env))
	// 匿名可写接口，限制单个 IP+路由的速率。
	r.Use(mw.RateLimit(rate.Every(time.Second/20), 40))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := NewHandler(cfg, roomSvc, msgSvc)

	api := r.Group("/api/v1")
	api.POST("/rooms", h.CreateRoom)
	api.POST("/rooms/verify", h.VerifyPIN)
	api.POST("/messages", h.PostMessage)
	api.GET("/rooms/:id/messages", h.ListMessages)

	api.POST("/admin/login", h.AdminLogin)
	api.POST("/admin/logout", h.AdminLogout)
	api.GET("/admin/session", h.AdminSession)

	// 审核接口统一在请求边界做会话校验，service 层不再重复检查。
	admin := api.Group("/admin")
	admin.Use(auth.AdminRequired(cfg.SessionSecret))
	admin.GET("/rooms", h.AdminListRooms)
	admin.GET("/rooms/:id/messages", h.AdminListMessages)
	admin.POST("/messages/:id/flag", h.AdminFlagMessage)
	admin.DELETE("/messages/:id", h.AdminDeleteMessage)

	r.GET("/ws", ws.Serve(hub, roomSvc, cfg))

	// 前端静态资源：找不到的路径回退到单页应用入口。
	webDir := "./web"
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Status(http.StatusNotFound)
			return
		}
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/metrics" || path == "/healthz" || strings.HasPrefix(path, "/ws") {
			c.Status(http.StatusNotFound)
			return
		}
		rel := strings.TrimPrefix(filepath.Clean(path), "/")
		if rel != "" {
			target := filepath.Join(webDir, rel)
			if fi, err := os.Stat(target); err == nil && !fi.IsDir() {
				c.File(target)
				return
			}
		}
		index := filepath.Join(webDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		c.Status(http.StatusNotFound)
	})

	return r
}
