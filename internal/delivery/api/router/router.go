// Package router registers the API routes.
package router

import (
	"letsshare/internal/delivery/api/middleware"
	"letsshare/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	PostHandler    *handler.PostHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	postHandler    *handler.PostHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		postHandler:    params.PostHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	// Reads are public; writes need a bearer token.
	postsGroup := e.Group("/posts")
	{
		postsGroup.GET("", r.postHandler.ListPosts)
		postsGroup.GET("/:id", r.postHandler.GetPost)
		postsGroup.GET("/:id/qr", r.postHandler.GetPostQRCode)
		postsGroup.POST("", r.postHandler.CreatePost, r.authMiddleware.Authenticate)
		postsGroup.PUT("/:id", r.postHandler.UpdatePost, r.authMiddleware.Authenticate)
	}
}
