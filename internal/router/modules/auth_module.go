package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nsdigital/agency-api/internal/container"
	handlers "github.com/nsdigital/agency-api/internal/interface/http"
	"github.com/nsdigital/agency-api/internal/interface/middleware"
	"github.com/nsdigital/agency-api/pkg/helpers"
)

// AuthModule wires the registration/login/session routes.
// Public: POST /api/auth/register, POST /api/auth/login, POST /api/auth/signout
// Protected: GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	// Sign-out is idempotent and needs no valid session: it only clears
	// the cookie.
	rg.POST("/auth/signout", m.Handler.SignOut)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth/me", m.Handler.Me)
	}
}
