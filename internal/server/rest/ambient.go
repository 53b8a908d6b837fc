package rest

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/sconn-admin/internal/logging"
	"github.com/dmitrijs2005/sconn-admin/internal/server/metrics"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 10 << 20

// RequestLogger puts a request-scoped logger into the request context and
// logs every completed request.
func RequestLogger(log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rlog := log.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
			"request_id", requestid.Get(c),
		)
		ctx := logging.Into(c.Request.Context(), rlog)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		rlog.Debug(ctx, "request started")
		c.Next()
		rlog.Info(ctx, "request completed", "status", c.Writer.Status(), "duration", time.Since(start))
	}
}

// CORS allows browser calls from a single origin.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if origin != "" && c.GetHeader("Origin") == origin {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			h.Set("Access-Control-Max-Age", "86400")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// BodyLimit caps request bodies.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// Recovery answers a panic with a 500 envelope. The panic value is only
// shown outside production.
func Recovery(log logging.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.From(c.Request.Context(), log).Error(c.Request.Context(), "panic recovered", "panic", recovered)
		message := "An internal server error occurred"
		if !production {
			if err, ok := recovered.(error); ok {
				message = err.Error()
			} else if s, ok := recovered.(string); ok {
				message = s
			}
		}
		abortError(c, http.StatusInternalServerError, CodeInternal, message)
	})
}

// Metrics records each request under its route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveRequest(path, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// ipLimiter hands out one token bucket per client IP. Buckets idle for a
// whole window are dropped.
type ipLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	window    time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(max int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		window:  window,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.window {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.window {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// RateLimit allows max requests per window from each client IP, refilling
// continuously. Excess requests get 429.
func RateLimit(max int, window time.Duration) gin.HandlerFunc {
	if max <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	l := newIPLimiter(max, window)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !l.allow(ip) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abortError(c, http.StatusTooManyRequests, CodeRateLimitExceeded, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
