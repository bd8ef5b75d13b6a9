package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/internal/domain"
	"github.com/zenwiki/zenwiki-backend/internal/handler"
	"github.com/zenwiki/zenwiki-backend/internal/middleware"
	"github.com/zenwiki/zenwiki-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	pageHandler *handler.PageHandler,
	menuHandler *handler.MenuHandler,
	authHandler *handler.AuthHandler,
	healthHandler *handler.HealthHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api")

	api.GET("/health", healthHandler.Check)

	// Authentication (the OAuth pair is unauthenticated by nature)
	auth := api.Group("/auth")
	auth.GET("/discord", authHandler.Login)
	auth.GET("/callback", authHandler.Callback)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)
	auth.POST("/logout", authHandler.Logout)

	editor := []gin.HandlerFunc{middleware.JWTAuth(jwtManager), middleware.RequireRole(domain.RoleEditor)}
	admin := []gin.HandlerFunc{middleware.JWTAuth(jwtManager), middleware.RequireRole(domain.RoleAdmin)}

	// Pages: reads are public, writes need at least editor, hard
	// delete is reserved for admins. /search must register before
	// /:slug so it is not swallowed by the parameter route.
	pages := api.Group("/pages")
	pages.GET("", pageHandler.List)
	pages.GET("/search", pageHandler.Search)
	pages.GET("/:slug", pageHandler.Get)
	pages.GET("/:slug/history", middleware.JWTAuth(jwtManager), pageHandler.History) // :slug carries the numeric id here
	pages.POST("", append(editor, pageHandler.Create)...)
	pages.PUT("/:id", append(editor, pageHandler.Update)...)
	pages.DELETE("/:id", append(admin, pageHandler.Delete)...)

	// Menus: the tree is public, structural changes need editor.
	// /reorder must register before /:id for the same reason as above.
	menus := api.Group("/menus")
	menus.GET("", menuHandler.GetTree)
	menus.POST("", append(editor, menuHandler.Create)...)
	menus.PUT("/reorder", append(editor, menuHandler.Reorder)...)
	menus.PUT("/:id", append(editor, menuHandler.Update)...)
	menus.PUT("/:id/move", append(editor, menuHandler.Move)...)
	menus.DELETE("/:id", append(editor, menuHandler.Delete)...)
}
