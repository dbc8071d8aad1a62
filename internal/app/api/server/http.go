package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/comunidadhq/backend/docs"
	"github.com/comunidadhq/backend/internal/app/api/handlers"
	mw "github.com/comunidadhq/backend/internal/app/api/middleware"
	"github.com/comunidadhq/backend/internal/app/service/access"
	"github.com/comunidadhq/backend/internal/app/service/auth"
	"github.com/comunidadhq/backend/internal/app/service/classroom"
	"github.com/comunidadhq/backend/internal/app/service/community"
	"github.com/comunidadhq/backend/internal/app/service/content"
	"github.com/comunidadhq/backend/internal/app/service/events"
	"github.com/comunidadhq/backend/internal/app/service/membership"
	"github.com/comunidadhq/backend/internal/app/service/paymentmethod"
	"github.com/comunidadhq/backend/internal/app/service/reports"
	"github.com/comunidadhq/backend/internal/app/service/subscription"
	"github.com/comunidadhq/backend/internal/platform/redisstore"
	"github.com/comunidadhq/backend/internal/platform/storage"
	cfgpkg "github.com/comunidadhq/backend/pkg/config"
	metrics "github.com/comunidadhq/backend/pkg/metrics"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Tracing attaches globally; request logger & access log per group.
	r.Use(mw.TraceMiddleware())
	return r
}

// routeDeps collects everything registerRoutes wires up.
type routeDeps struct {
	fx.In

	Log      *zap.SugaredLogger
	Cfg      *cfgpkg.Config
	DB       *gorm.DB
	Issuer   *auth.TokenIssuer
	Sessions *redisstore.SessionStore
	Resolver *access.Resolver
	Files    storage.Store

	Auth          *auth.Service
	Community     *community.Service
	Membership    *membership.Service
	Subscription  *subscription.Service
	SubStore      *subscription.GormStore
	Content       *content.Service
	Classroom     *classroom.Service
	Events        *events.Service
	PaymentMethod *paymentmethod.Service
	Reports       *reports.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	log, cfg := d.Log, d.Cfg

	if cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}

	// Public group: health, swagger, uploads dir, auth, discovery.
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if cfg.Storage.Dir != "" {
		pub.Static(cfg.Storage.PublicPath, cfg.Storage.Dir)
	}
	handlers.RegisterAuthPublicRoutes(pub, d.Auth)
	pub.GET("/communities", handlers.ApiDiscoverCommunities(d.Community))

	// The about page resolves identity when present but never demands it.
	pubAbout := pub.Group("/community/:slug")
	pubAbout.Use(mw.OptionalAuth(d.Issuer, d.Sessions),
		mw.CommunityGuard(d.Resolver, log, access.SectionAbout))
	pubAbout.GET("/about", handlers.ApiCommunityAbout())

	// Session-bound surface.
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(),
		mw.RequireAuth(d.Issuer, d.Sessions))

	handlers.RegisterAuthPrivateRoutes(apiV1, d.Auth)
	apiV1.POST("/communities", handlers.ApiCreateCommunity(d.Community))
	apiV1.GET("/my/communities", handlers.ApiMyCommunities(d.Membership))
	apiV1.POST("/uploads", handlers.ApiUpload(d.Files))
	apiV1.POST("/subscriptions/:id/cancel", handlers.ApiCancelJoinRequest(d.Subscription))

	// Community-scoped groups. Every group re-resolves access per request;
	// the guard's section decides whether membership is demanded.
	registerCommunityRoutes(apiV1, d)

	// Platform admin surface.
	admin := apiV1.Group("/admin")
	admin.Use(mw.RequirePlatformAdmin(d.Auth))
	admin.POST("/profiles/list", handlers.ApiAdminListProfiles(d.DB))
	admin.POST("/communities/list", handlers.ApiAdminListCommunities(d.DB))
	admin.POST("/subscriptions/list", handlers.ApiAdminListSubscriptions(d.SubStore))
	admin.POST("/subscriptions/:id/approve", handlers.ApiApproveSubscription(d.Subscription))
	admin.POST("/subscriptions/:id/reject", handlers.ApiRejectSubscription(d.Subscription))
	admin.GET("/payment_methods", handlers.ApiPaymentMethodCatalog(d.PaymentMethod))
	admin.POST("/payment_methods", handlers.ApiAdminCreatePaymentMethod(d.PaymentMethod))
	admin.DELETE("/payment_methods/:id", handlers.ApiAdminDeletePaymentMethod(d.PaymentMethod))
	admin.POST("/reports/overview", handlers.ApiAdminOverview(d.Reports))
	admin.GET("/reports/top_communities", handlers.ApiAdminTopCommunities(d.Reports))
	admin.GET("/reports/snapshots", handlers.ApiAdminSnapshotSeries(d.Reports))
}

// registerCommunityRoutes mounts the per-community sections behind the
// access guard. Each section name feeds the guard's redirect rules.
func registerCommunityRoutes(apiV1 *gin.RouterGroup, d routeDeps) {
	log := d.Log
	guarded := func(section string) *gin.RouterGroup {
		g := apiV1.Group("/community/:slug")
		g.Use(mw.CommunityGuard(d.Resolver, log, section))
		return g
	}

	// About stays reachable for authenticated non-members, carrying the
	// viewer's settled state for the join dialog.
	about := guarded(access.SectionAbout)
	about.GET("/about", handlers.ApiCommunityAbout())
	about.GET("/join/status", handlers.ApiJoinStatus(d.Subscription))
	about.GET("/join/payment_methods", handlers.ApiJoinPaymentMethods(d.PaymentMethod))
	about.POST("/join", handlers.ApiJoinFree(d.Subscription))
	about.POST("/join/request", handlers.ApiRequestPaidJoin(d.Subscription))

	feed := guarded("feed")
	feed.GET("/posts", handlers.ApiListPosts(d.Content))
	feed.POST("/posts", handlers.ApiCreatePost(d.Content))
	feed.GET("/posts/:post_id", handlers.ApiGetPost(d.Content))
	feed.PATCH("/posts/:post_id", handlers.ApiUpdatePost(d.Content))
	feed.DELETE("/posts/:post_id", handlers.ApiDeletePost(d.Content))
	feed.POST("/posts/:post_id/comments", handlers.ApiCreateComment(d.Content))
	feed.DELETE("/posts/:post_id/comments/:comment_id", handlers.ApiDeleteComment(d.Content))

	class := guarded("classroom")
	class.GET("/classroom", handlers.ApiListCourses(d.Classroom))
	class.GET("/classroom/:course_id", handlers.ApiGetCourse(d.Classroom))
	class.GET("/classroom/:course_id/lessons/:lesson_id", handlers.ApiGetLesson(d.Classroom))

	classAdmin := guarded("classroom")
	classAdmin.Use(mw.RequireCommunityAdmin())
	classAdmin.POST("/classroom", handlers.ApiCreateCourse(d.Classroom))
	classAdmin.PUT("/classroom/:course_id", handlers.ApiUpdateCourse(d.Classroom))
	classAdmin.DELETE("/classroom/:course_id", handlers.ApiDeleteCourse(d.Classroom))
	classAdmin.POST("/classroom/:course_id/lessons", handlers.ApiCreateLesson(d.Classroom))
	classAdmin.PUT("/classroom/:course_id/lessons/:lesson_id", handlers.ApiUpdateLesson(d.Classroom))
	classAdmin.DELETE("/classroom/:course_id/lessons/:lesson_id", handlers.ApiDeleteLesson(d.Classroom))

	calendar := guarded("calendar")
	calendar.GET("/calendar", handlers.ApiListEvents(d.Events))
	calendar.GET("/calendar/:event_id", handlers.ApiGetEvent(d.Events))

	calendarAdmin := guarded("calendar")
	calendarAdmin.Use(mw.RequireCommunityAdmin())
	calendarAdmin.POST("/calendar", handlers.ApiCreateEvent(d.Events))
	calendarAdmin.PUT("/calendar/:event_id", handlers.ApiUpdateEvent(d.Events))
	calendarAdmin.DELETE("/calendar/:event_id", handlers.ApiDeleteEvent(d.Events))

	members := guarded("members")
	members.GET("/members", handlers.ApiListMembers(d.Membership))
	members.POST("/members/leave", handlers.ApiLeaveCommunity(d.Membership))

	membersAdmin := guarded("members")
	membersAdmin.Use(mw.RequireCommunityAdmin())
	membersAdmin.PATCH("/members/:profile_id/role", handlers.ApiChangeMemberRole(d.Membership))
	membersAdmin.DELETE("/members/:profile_id", handlers.ApiRemoveMember(d.Membership))

	settings := guarded("settings")
	settings.Use(mw.RequireCommunityAdmin())
	settings.PATCH("/settings", handlers.ApiUpdateCommunity(d.Community))
	settings.DELETE("/settings", handlers.ApiDeleteCommunity(d.Community))
	settings.GET("/payment_methods/catalog", handlers.ApiPaymentMethodCatalog(d.PaymentMethod))
	settings.GET("/payment_methods", handlers.ApiCommunityPaymentConfigs(d.PaymentMethod))
	settings.POST("/payment_methods", handlers.ApiConfigurePaymentMethod(d.PaymentMethod))
	settings.PATCH("/payment_methods/:config_id", handlers.ApiUpdatePaymentConfig(d.PaymentMethod))
	settings.DELETE("/payment_methods/:config_id", handlers.ApiRemovePaymentConfig(d.PaymentMethod))
	settings.POST("/subscriptions/list", handlers.ApiCommunitySubscriptions(d.SubStore))
	settings.POST("/subscriptions/:id/approve", handlers.ApiApproveSubscription(d.Subscription))
	settings.POST("/subscriptions/:id/reject", handlers.ApiRejectSubscription(d.Subscription))
	settings.GET("/reports/overview", handlers.ApiCommunityOverview(d.Reports))
	settings.GET("/reports/snapshots", handlers.ApiCommunitySnapshotSeries(d.Reports))
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
