package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"server/auth"
	"server/cache"
	"server/config"
	"server/db"
	"server/feed"
	"server/handlers"
	"server/models"
	"server/storage"
	"server/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	handlers.Init(feed.NewService(db.Instance, cache.Init(), config.FEED_PAGE_SIZE))

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/post/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}

	// Public feeds
	router.GET("/", handlers.GlobalFeed)
	router.GET("/group/:slug", handlers.GroupFeed)
	router.GET("/profile/:handle", handlers.ProfileFeed)
	// Post detail + attachments; attachments are immutable per path, so
	// clients may cache them aggressively
	imageCache := (&utils.CacheRouter{CacheTime: 86400, Public: true}).Handler()
	router.GET("/post/:id", handlers.PostDetail)
	router.GET("/post/:id/image", imageCache, handlers.PostImage)
	router.GET("/post/:id/thumb", imageCache, handlers.PostThumb)
	// User handlers
	router.GET("/user/login", handlers.UserLoginForm)
	router.POST("/user/login", handlers.UserLogin)
	router.POST("/user/signup", handlers.UserSignup)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	// Mutations (authenticated)
	authRouter.POST("/post/new", handlers.PostCreate)
	authRouter.POST("/post/:id/edit", handlers.PostEdit)
	authRouter.POST("/post/:id/comment", handlers.CommentCreate)
	// Follow graph + personal feed (authenticated)
	authRouter.GET("/follow", handlers.FollowingFeed)
	authRouter.GET("/profile/:handle/follow", handlers.Follow)
	authRouter.GET("/profile/:handle/unfollow", handlers.Unfollow)
	// Admin
	router.GET("/group/list", handlers.GroupList)
	authRouter.POST("/group/create", handlers.GroupCreate, models.PermissionAdmin)
	authRouter.GET("/user/list", handlers.UserList, models.PermissionAdmin)
	// Operational recovery
	authRouter.POST("/cache/clear", handlers.CacheClear, models.PermissionAdmin)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.NotFoundResponse)
	})

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
