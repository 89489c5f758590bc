package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillboost/skillboost-api/internal/container"
	handlers "github.com/skillboost/skillboost-api/internal/interface/http"
	"github.com/skillboost/skillboost-api/internal/interface/middleware"
	"github.com/skillboost/skillboost-api/pkg/helpers"
)

// UserModule mounts the account routes.
// Public: POST /api/user/register, POST /api/user/login
// Protected: PUT /api/user/editProfile
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	// register and login are brute-force targets, keep the window tight
	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	user := rg.Group("/user")
	user.POST("/register", registerLimiter, m.Handler.Register)
	user.POST("/login", loginLimiter, m.Handler.Login)

	auth := user.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		auth.PUT("/editProfile", m.Handler.EditProfile)
	}
}
