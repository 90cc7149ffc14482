package middleware

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/config"
)

// clientLimiter stores the rate limiter for a specific client.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterMiddleware manages per-client token buckets for the public API.
type RateLimiterMiddleware struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	cfg     *config.Config
}

// NewRateLimiterMiddleware creates a new RateLimiterMiddleware.
func NewRateLimiterMiddleware(cfg *config.Config) *RateLimiterMiddleware {
	rm := &RateLimiterMiddleware{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
	}
	// Start a background goroutine to clean up old client entries
	go rm.cleanupClients()
	return rm
}

// getClientLimiter retrieves or creates the rate limiter for a client IP.
func (rm *RateLimiterMiddleware) getClientLimiter(ip string) *clientLimiter {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	limiter, exists := rm.clients[ip]
	if !exists {
		limiter = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rm.cfg.RateLimitRefillRate), rm.cfg.RateLimitBucketSize),
		}
		rm.clients[ip] = limiter
	}
	limiter.lastSeen = time.Now()
	return limiter
}

// cleanupClients periodically removes old client entries from the map.
func (rm *RateLimiterMiddleware) cleanupClients() {
	for {
		time.Sleep(10 * time.Minute)
		rm.mu.Lock()
		count := 0
		for ip, client := range rm.clients {
			if time.Since(client.lastSeen) > 30*time.Minute {
				delete(rm.clients, ip)
				count++
			}
		}
		rm.mu.Unlock()
		if count > 0 {
			log.Printf("Rate limiter cleanup removed %d old client entries.", count)
		}
	}
}

// Limit creates the Gin middleware handler.
func (rm *RateLimiterMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		client := rm.getClientLimiter(c.ClientIP())
		if !client.limiter.Allow() {
			log.Printf("Rate limit exceeded for client: %s on %s", c.ClientIP(), c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
