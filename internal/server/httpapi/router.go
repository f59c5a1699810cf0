package httpapi

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"studylink/internal/logging"
	"studylink/internal/server/config"
)

type handlers struct {
	svc            Services
	db             *sql.DB
	logger         logging.Logger
	maxUploadBytes int64
}

// NewRouter builds the gin engine with all routes and middleware attached.
func NewRouter(cfg *config.Config, logger logging.Logger, db *sql.DB, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg)))

	h := &handlers{
		svc:            svc,
		db:             db,
		logger:         logger,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	authRequired := Auth([]byte(cfg.SecretKey))

	api := r.Group("/api")
	api.GET("/health", h.health)
	api.GET("/classes", h.listClasses)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.PUT("/password", authRequired, h.changePassword)
	authGroup.DELETE("/account", h.deleteAccount)

	filesGroup := api.Group("/files")
	filesGroup.GET("", h.listFiles)
	filesGroup.POST("/upload", authRequired, h.upload)
	filesGroup.GET("/mine", authRequired, h.listMine)
	filesGroup.GET("/bookmarks", authRequired, h.listBookmarks)
	filesGroup.GET("/:id", h.download)
	filesGroup.GET("/:id/preview", h.preview)
	filesGroup.DELETE("/:id", authRequired, h.deleteFile)
	filesGroup.POST("/:id/bookmark", authRequired, h.addBookmark)
	filesGroup.DELETE("/:id/bookmark", authRequired, h.removeBookmark)

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = splitOrigins(cfg.AllowedOrigins)
	c.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	c.ExposeHeaders = []string{"Content-Disposition", requestIDHeader}
	c.MaxAge = 12 * time.Hour
	return c
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
