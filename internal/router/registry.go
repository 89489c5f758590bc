package router

import "github.com/gin-gonic/gin"

// Module is a feature area that mounts its routes on the shared API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}

// Registry collects modules and shared middleware, then mounts everything
// under /api in one pass.
type Registry struct {
	Engine      *gin.Engine
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	modules     []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use appends middleware applied to the whole API group.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add queues modules for registration.
func (r *Registry) Add(mods ...Module) {
	r.modules = append(r.modules, mods...)
}

// RegisterAll mounts middleware and every queued module. Call once after all
// Add calls.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
	}
}
