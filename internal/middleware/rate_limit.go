package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const apiWindow = 1 * time.Minute

// APIRateLimit limite le nombre de requêtes par IP et par minute (fenêtre
// fixe dans Redis). Sans Redis, ou si Redis ne répond pas, la requête passe.
func APIRateLimit(rdb *redis.Client, maxRequests int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || maxRequests <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		window := time.Now().Unix() / int64(apiWindow.Seconds())
		key := "api_requests:" + c.ClientIP() + ":" + strconv.FormatInt(window, 10)

		pipe := rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, apiWindow)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("⚠️ Rate limit indisponible: %v", err)
			c.Next()
			return
		}

		requests := int(incr.Val())
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		if requests > maxRequests {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success":     false,
				"message":     "Too many requests, try again in a minute",
				"retry_after": int(apiWindow.Seconds()),
			})
			return
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", maxRequests-requests))

		c.Next()
	}
}
