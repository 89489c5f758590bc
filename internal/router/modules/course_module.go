package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillboost/skillboost-api/internal/container"
	handlers "github.com/skillboost/skillboost-api/internal/interface/http"
	"github.com/skillboost/skillboost-api/internal/interface/middleware"
	"github.com/skillboost/skillboost-api/pkg/helpers"
)

// CourseModule mounts the catalog routes under /api/course. Every route
// requires a valid token, browsing included.
type CourseModule struct {
	Handler *handlers.CourseHandler
	JWT     *helpers.JWTManager
}

func NewCourseModule(h *handlers.CourseHandler, jwt *helpers.JWTManager) *CourseModule {
	return &CourseModule{Handler: h, JWT: jwt}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	course := rg.Group("/course")
	course.Use(middleware.Auth(m.JWT))
	course.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		// static segments must be declared next to the :id routes they shadow
		course.GET("/", m.Handler.List)
		course.GET("/top5", m.Handler.Top5)
		course.GET("/findByName/:name", m.Handler.FindByName)
		course.GET("/instructor/:id", m.Handler.ByInstructor)
		course.GET("/student/:id", m.Handler.ByStudent)
		course.GET("/messages/:id", m.Handler.Messages)
		course.GET("/:id", m.Handler.Get)

		course.POST("/", m.Handler.Create)
		course.POST("/enroll/:id", m.Handler.Enroll)
		course.PATCH("/:id", m.Handler.Update)
		course.PUT("/:id/rating", m.Handler.Rate)
		course.PUT("/messages/:id", m.Handler.AddComment)
		course.DELETE("/:id", m.Handler.Delete)
		course.DELETE("/messages/:courseId/:messageId", m.Handler.DeleteComment)
	}
}
