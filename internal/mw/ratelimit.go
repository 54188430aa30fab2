package mw

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Limiter 按 IP+路由维护令牌桶，闲置的键由后台定期回收。
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	r       rate.Limit
	burst   int
	ttl     time.Duration
	stop    chan struct{}
}

func NewLimiter(r rate.Limit, burst int, ttl time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		r:       r,
		burst:   burst,
		ttl:     ttl,
		stop:    make(chan struct{}),
	}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if ok {
		b.lastSeen = time.Now()
		return b.lim
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.buckets[key] = &bucket{lim: lim, lastSeen: time.Now()}
	return lim
}

func (l *Limiter) gc() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			now := time.Now()
			l.mu.Lock()
			for k, b := range l.buckets {
				if now.Sub(b.lastSeen) > l.ttl {
					delete(l.buckets, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop 停止 GC goroutine，用于优雅停服。
func (l *Limiter) Stop() {
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
}

// RateLimit 返回一个基于 IP+路径的令牌桶限速中间件，
// 匿名发帖接口必须有它兜底。
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	l := NewLimiter(r, burst, 2*time.Minute)
	go l.gc()
	return func(c *gin.Context) {
		ip := clientIP(c.Request.RemoteAddr)
		key := ip + "|" + c.FullPath()
		if key == "|" {
			key = ip + "|" + c.Request.URL.Path
		}
		if !l.get(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func clientIP(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
