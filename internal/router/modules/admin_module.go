package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nsdigital/agency-api/internal/container"
	handlers "github.com/nsdigital/agency-api/internal/interface/http"
	"github.com/nsdigital/agency-api/internal/interface/middleware"
	"github.com/nsdigital/agency-api/pkg/helpers"
)

// AdminModule wires the admin dashboard routes. Every route requires a
// valid session; the service layer re-checks the caller's role against the
// store on each call, so a revoked admin is rejected here even with a
// still-valid token.
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.JWT))
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.GET("/users/stats", m.Handler.Stats)
		admin.PATCH("/users/:id/block", m.Handler.ToggleBlock)
	}
}
