// Package router wires route registrars onto the gin engine. The API
// lives under a flat /api prefix; registrars carrying middleware of
// their own attach it inside their RegisterRoutes.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on a router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a plain function to the RouteRegistrar interface.
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

// Router collects registrars for the public and authenticated halves of
// the API and registers them in one Setup pass.
type Router struct {
	engine    *gin.Engine
	prefix    string
	auth      []gin.HandlerFunc
	public    []RouteRegistrar
	protected []RouteRegistrar
}

// NewRouter creates a router for the engine. The auth middleware chain
// guards every protected registrar.
func NewRouter(engine *gin.Engine, auth ...gin.HandlerFunc) *Router {
	return &Router{
		engine: engine,
		prefix: "/api",
		auth:   auth,
	}
}

// Public adds registrars served without authentication.
func (r *Router) Public(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// Protected adds registrars guarded by the auth middleware.
func (r *Router) Protected(registrars ...RouteRegistrar) *Router {
	r.protected = append(r.protected, registrars...)
	return r
}

// Setup registers all collected routes on the engine.
func (r *Router) Setup() {
	api := r.engine.Group(r.prefix)
	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	guarded := r.engine.Group(r.prefix)
	guarded.Use(r.auth...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(guarded)
	}
}
