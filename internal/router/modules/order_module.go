package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillboost/skillboost-api/internal/container"
	handlers "github.com/skillboost/skillboost-api/internal/interface/http"
	"github.com/skillboost/skillboost-api/internal/interface/middleware"
	"github.com/skillboost/skillboost-api/pkg/helpers"
)

// OrderModule mounts the cart and order routes under /api/order, all behind
// authentication.
type OrderModule struct {
	Handler *handlers.OrderHandler
	JWT     *helpers.JWTManager
}

func NewOrderModule(h *handlers.OrderHandler, jwt *helpers.JWTManager) *OrderModule {
	return &OrderModule{Handler: h, JWT: jwt}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	order := rg.Group("/order")
	order.Use(middleware.Auth(m.JWT))
	order.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowPrivateIP()))
	{
		order.GET("/cart", m.Handler.GetCart)
		order.GET("/orders", m.Handler.ListOrders)
		order.GET("/:id", m.Handler.GetOrder)

		order.POST("/add-to-cart", m.Handler.AddToCart)
		order.DELETE("/cart/:courseId", m.Handler.RemoveFromCart)
		order.PUT("/:id", m.Handler.Checkout)
		order.DELETE("/:id", m.Handler.DeleteOrder)
	}
}
