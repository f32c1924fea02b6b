package server

import (
	"net/http/httputil"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/replate/internal/edgeproxy"
	"github.com/smallbiznis/replate/internal/observability"
	obslogger "github.com/smallbiznis/replate/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/replate/internal/observability/metrics"
	obstracing "github.com/smallbiznis/replate/internal/observability/tracing"
	"go.uber.org/fx"
)

var EdgeProxyModule = fx.Module("http.edgeproxy",
	fx.Provide(edgeproxy.New),
	fx.Provide(NewProxyEngine),
	fx.Invoke(RunHTTP),
)

// NewProxyEngine forwards every request upstream. It registers no routes of
// its own so nothing shadows an identity-provider path.
func NewProxyEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, proxy *httputil.ReverseProxy) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{Debug: obsCfg.Debug()}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.NoRoute(gin.WrapH(proxy))

	return r
}
