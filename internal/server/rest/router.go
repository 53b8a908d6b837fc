package rest

import (
	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server/config"
	"github.com/dmitrijs2005/sconn-admin/internal/server/metrics"
	"github.com/dmitrijs2005/sconn-admin/internal/timex"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP surface: health and metrics at the root, auth
// routes under cfg.APIPrefix + "/auth". m may be nil.
func NewRouter(cfg *config.Config, svc AuthService, log logging.Logger, m *metrics.Metrics, clock timex.Clock) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if clock == nil {
		clock = timex.SystemClock{}
	}
	useJSONFieldNames()

	h := &handler{
		auth:       svc,
		log:        log,
		clock:      clock,
		env:        cfg.Env,
		production: cfg.IsProduction(),
	}

	r := gin.New()
	r.Use(
		requestid.New(),
		RequestLogger(log),
		Recovery(log, cfg.IsProduction()),
	)
	if m != nil {
		r.Use(Metrics(m))
	}
	r.Use(
		CORS(cfg.CORSOrigin),
		RateLimit(cfg.RateLimitMaxRequests, cfg.RateLimitWindow),
		BodyLimit(maxBodyBytes),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)

	r.GET("/health", h.Health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	authn := Authenticate(svc, log)
	g := r.Group(cfg.APIPrefix + "/auth")
	g.POST("/login", h.Login)
	g.POST("/refresh", h.Refresh)
	g.POST("/logout", authn, h.Logout)
	g.POST("/logout-all", authn, h.LogoutAll)
	g.GET("/me", authn, h.Me)

	r.NoRoute(h.NotFound)
	return r
}
