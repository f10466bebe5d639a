package api

import (
	"labsite/internal/storage"

	"github.com/gin-gonic/gin"
)

// NewRouter 组装中间件与全部路由
func NewRouter(h *HTTPHandler) *gin.Engine {
	r := gin.New()

	// 添加中间件
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware(h.cfg.CORSAllowOrigin))
	r.Use(gin.Recovery())

	r.GET("/health", h.Health)

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/login", RateLimitMiddleware(h.cfg.RateLimitPerMinute), h.Login)
	authGroup.GET("/session", h.RequireSession(), h.Session)

	apiGroup.POST("/contact", RateLimitMiddleware(h.cfg.RateLimitPerMinute), h.SubmitContact)

	adminGroup := apiGroup.Group("/admin")
	adminGroup.POST("/request-access", RateLimitMiddleware(h.cfg.RateLimitPerMinute), h.RequestAccess)

	superAdmin := adminGroup.Group("")
	superAdmin.Use(h.RequireSuperAdmin())
	superAdmin.GET("/access-requests", h.ListAccessRequests)
	superAdmin.PATCH("/access-requests", h.ReviewAccessRequest)
	superAdmin.GET("/users", h.ListUsers)
	superAdmin.PATCH("/users/:id", h.UpdateUser)
	superAdmin.DELETE("/users/:id", h.DeleteUser)

	contentAdmin := adminGroup.Group("")
	contentAdmin.Use(h.RequireContentAdmin())
	contentAdmin.GET("/contact-messages", h.ListContactMessages)
	contentAdmin.POST("/uploads", h.UploadMedia)

	h.registerContentRoutes(apiGroup)

	// 本地存储直接由服务器提供静态文件
	if localProvider, ok := h.storage.(storage.LocalBaseDirProvider); ok && !storage.IsAbsoluteURL(h.storagePublicBase) {
		r.Static(h.storagePublicBase, localProvider.LocalBaseDir())
	}

	return r
}
