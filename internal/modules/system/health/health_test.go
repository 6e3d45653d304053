package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/database/databasetest"
	"github.com/mx-space/guestbook/internal/pkg/cron"
)

func init() { gin.SetMode(gin.TestMode) }

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		redis      Pinger
		closeDB    bool
		wantCode   int
		wantStatus string
		wantRedis  *bool
	}{
		{name: "database only", wantCode: 200, wantStatus: "ok"},
		{
			name:       "redis up",
			redis:      pingerFunc(func(context.Context) error { return nil }),
			wantCode:   200,
			wantStatus: "ok",
			wantRedis:  ptr(true),
		},
		{
			name:       "redis down",
			redis:      pingerFunc(func(context.Context) error { return errors.New("down") }),
			wantCode:   503,
			wantStatus: "degraded",
			wantRedis:  ptr(false),
		},
		{name: "database down", closeDB: true, wantCode: 503, wantStatus: "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db := databasetest.Open(t)
			if tt.closeDB {
				sqlDB, _ := db.DB()
				_ = sqlDB.Close()
			}
			r := gin.New()
			RegisterRoutes(r.Group(""), db, tt.redis, cron.New(nil))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			var got report
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tt.wantStatus || got.Database == tt.closeDB {
				t.Errorf("report = %+v", got)
			}
			if (got.Redis == nil) != (tt.wantRedis == nil) || (got.Redis != nil && *got.Redis != *tt.wantRedis) {
				t.Errorf("redis = %v, want %v", got.Redis, tt.wantRedis)
			}
		})
	}
}

func ptr(b bool) *bool { return &b }
