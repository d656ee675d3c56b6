package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reconhq/recon-core/internal/middleware"
	"github.com/reconhq/recon-core/internal/modules/assignment"
	"github.com/reconhq/recon-core/internal/modules/auth"
	"github.com/reconhq/recon-core/internal/modules/category"
	"github.com/reconhq/recon-core/internal/modules/distribution"
	"github.com/reconhq/recon-core/internal/modules/identity"
	"github.com/reconhq/recon-core/internal/modules/portal"
	"github.com/reconhq/recon-core/internal/modules/post"
	"github.com/reconhq/recon-core/internal/modules/processing/rewrite"
	pkgredis "github.com/reconhq/recon-core/internal/pkg/redis"
	"github.com/reconhq/recon-core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client, rewriteClient rewrite.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"name": "recon-core", "status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))

	dispatchTimeout := time.Duration(a.cfg.Dispatch.TimeoutSeconds) * time.Second
	identityTimeout := time.Duration(a.cfg.Dispatch.IdentityCheckTimeoutSeconds) * time.Second

	identitySvc := identity.NewService(db, a.logger, identityTimeout)
	identity.NewHandler(identitySvc).RegisterRoutes(api, authMW)

	auth.NewHandler(auth.NewService(db, identitySvc, a.logger)).RegisterRoutes(api, authMW)

	portal.NewHandler(portal.NewService(db)).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW)
	assignment.NewHandler(assignment.NewService(db)).RegisterRoutes(api, authMW)
	post.NewHandler(post.NewService(db)).RegisterRoutes(api, authMW)

	// Distribution engine
	ledger := distribution.NewLedger(db)
	dispatcher := distribution.NewDispatcher(
		db,
		distribution.NewResolver(db),
		distribution.NewGenerator(rewriteClient, a.logger),
		identitySvc,
		ledger,
		distribution.NewPortalClient(dispatchTimeout, a.logger),
		a.logger,
		a.cfg.Dispatch.Strategy,
	)
	distribution.NewHandler(dispatcher, ledger).RegisterRoutes(api, authMW)
}
