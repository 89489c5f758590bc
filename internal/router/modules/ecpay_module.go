package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillboost/skillboost-api/internal/container"
	handlers "github.com/skillboost/skillboost-api/internal/interface/http"
	"github.com/skillboost/skillboost-api/internal/interface/middleware"
)

// ECPayModule mounts the payment bridge under /api/ecpay. The routes stay
// public: the browser is sent here for the redirect form, and the gateway
// posts the result back without any of our tokens.
type ECPayModule struct {
	Handler *handlers.ECPayHandler
}

func NewECPayModule(h *handlers.ECPayHandler) *ECPayModule {
	return &ECPayModule{Handler: h}
}

func (m *ECPayModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	ecpay := rg.Group("/ecpay")
	ecpay.Use(limiter)
	{
		ecpay.GET("/payment", m.Handler.Payment)
		ecpay.POST("/return", m.Handler.Return)
		ecpay.GET("/clientReturn", m.Handler.ClientReturn)
	}
}
