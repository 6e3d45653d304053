package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/modules/guestbook"
	"github.com/mx-space/guestbook/internal/modules/guestbook/timeline"
	"github.com/mx-space/guestbook/internal/modules/guestbook/visit"
	"github.com/mx-space/guestbook/internal/modules/system/health"
	pkgredis "github.com/mx-space/guestbook/internal/pkg/redis"
	"github.com/mx-space/guestbook/internal/pkg/response"
)

const visitLockPrefix = "guestbook:visit_lock:"

func (a *App) registerRoutes() {
	r := a.router
	gb := a.cfg.Guestbook
	logger := a.logger.Named("Guestbook")

	r.NoRoute(response.NotFound)
	r.NoMethod(response.MethodNotAllowed)

	store := visit.NewGormStore(a.db)
	engineOpts := []visit.Option{visit.WithWindow(gb.Window), visit.WithLogger(logger)}
	if gb.StrictWrites {
		var locker visit.Locker = visit.NewLocalLocker()
		if a.redis != nil {
			locker = pkgredis.NewMutex(a.redis, visitLockPrefix, 0)
		}
		engineOpts = append(engineOpts, visit.WithLocker(locker))
	}
	engine := visit.NewEngine(store, engineOpts...)
	assembler := timeline.NewAssembler(store,
		timeline.WithHorizon(gb.RecentHorizon),
		timeline.WithLimit(gb.LatestLimit),
	)

	svcOpts := []guestbook.ServiceOption{guestbook.WithLogger(logger)}
	if a.redis != nil {
		svcOpts = append(svcOpts, guestbook.WithCache(a.redis, gb.TimelineCacheTTL))
	}
	svc := guestbook.NewService(engine, assembler, svcOpts...)

	root := r.Group("")
	guestbook.NewHandler(svc, guestbook.HandlerConfig{
		RedirectURL: gb.RedirectURL,
		Title:       gb.Title,
	}, logger).RegisterRoutes(root)

	var pinger health.Pinger
	if a.redis != nil {
		pinger = a.redis
	}
	health.RegisterRoutes(root, a.db, pinger, a.sched)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/view?standalone=1")
	})
}
