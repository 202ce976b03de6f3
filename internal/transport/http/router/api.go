package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"todo-api/internal/core/config"
	"todo-api/internal/core/server"
	mdw "todo-api/internal/transport/http/middleware"
	resp "todo-api/internal/transport/http/response"
)

type Deps struct {
	Limits  config.Limits
	Auth    mdw.TokenResolver
	Modules *Registry
	// Metrics 为空时新建一个独立 registry
	Metrics *prometheus.Registry
	// Ping 健康检查时探测下游（DB），可为空
	Ping func(ctx context.Context) error
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := server.NewRouter(l)

	reg := d.Metrics
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := mdw.NewHTTPMetrics(reg)

	// 中间件
	r.Use(
		mdw.RequestID(),
		metrics.Middleware(),
		mdw.AccessLog(l),
		mdw.RateLimit(rate.Limit(d.Limits.RPS), d.Limits.Burst),
		mdw.RateLimitPerIP(rate.Limit(d.Limits.PerIPRPS), d.Limits.PerIPBurst),
		mdw.ConcurrencyLimit(max(d.Limits.MaxConcurrent, 1)),
		mdw.MaxBodyBytes(max(d.Limits.MaxBodyBytes, 1<<10)),
		mdw.Timeout(d.Limits.RequestTimeout()),
	)

	// 健康检查 / 指标
	r.GET("/health", func(c *gin.Context) {
		if d.Ping != nil {
			if err := d.Ping(c.Request.Context()); err != nil {
				l.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	r.GET("/metrics", metrics.Handler())

	r.NoRoute(func(c *gin.Context) {
		resp.Abort(c, http.StatusNotFound, resp.CodeNotFound, "No handler for "+c.Request.Method+" "+c.Request.URL.Path)
	})

	mods := d.Modules
	if mods == nil {
		mods = NewRegistry()
	}

	// 公共分组（/auth/*）
	mods.MountAllPublic(&r.RouterGroup)

	// 鉴权分组
	authed := r.Group("")
	authed.Use(mdw.AuthJWT(d.Auth))
	mods.MountAllAPI(authed)

	return r
}
