// Package health reports whether the service's backing stores are reachable.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/pkg/cron"
	"github.com/mx-space/guestbook/internal/pkg/response"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by the Redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

type report struct {
	Status   string `json:"status"`
	Database bool   `json:"database"`
	Redis    *bool  `json:"redis"`
}

// RegisterRoutes mounts /health and /health/cron. redis may be nil when Redis
// is disabled, in which case it reports null.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, redis Pinger, sched *cron.Scheduler) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		out := report{Status: "ok", Database: pingDB(ctx, db)}
		healthy := out.Database
		if redis != nil {
			ok := redis.Ping(ctx) == nil
			out.Redis = &ok
			healthy = healthy && ok
		}

		code := http.StatusOK
		if !healthy {
			out.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		response.JSON(c, code, out)
	})

	if sched != nil {
		rg.GET("/health/cron", func(c *gin.Context) {
			response.OK(c, gin.H{"data": sched.List()})
		})
	}
}

func pingDB(ctx context.Context, db *gorm.DB) bool {
	sqlDB, err := db.DB()
	return err == nil && sqlDB.PingContext(ctx) == nil
}
