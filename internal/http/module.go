// Package http holds the contracts between the router and the domain modules.
package http

import "github.com/gin-gonic/gin"

// Module is a bounded context that mounts its own routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the route groups a module can mount on. Both are
// rate limited and under /api/v1.
type RouterContext struct {
	// Protected requires a valid access token.
	Protected *gin.RouterGroup
	// Admin is Protected plus the admin role, mounted at /admin.
	Admin *gin.RouterGroup
}
