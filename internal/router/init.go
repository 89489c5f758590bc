package router

import (
	"github.com/skillboost/skillboost-api/internal/application"
	"github.com/skillboost/skillboost-api/internal/container"
	"github.com/skillboost/skillboost-api/internal/infrastructure/mongodb"
	handlers "github.com/skillboost/skillboost-api/internal/interface/http"
	"github.com/skillboost/skillboost-api/internal/router/modules"
	"github.com/skillboost/skillboost-api/pkg/ecpay"
)

func buildUserService() *application.UserService {
	return application.NewUserService(
		mongodb.NewUserRepository(container.GetMongo()),
		container.GetJWT(),
		container.GetUploads(),
		container.GetLogger(),
	)
}

func buildCourseService() *application.CourseService {
	cfg := container.GetConfig()
	return application.NewCourseService(
		mongodb.NewCourseRepository(container.GetMongo()),
		mongodb.NewUserRepository(container.GetMongo()),
		container.GetUploads(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		cfg.ESCoursesIndex,
		cfg.CourseCacheTTL,
	)
}

func buildOrderService() *application.OrderService {
	return application.NewOrderService(
		mongodb.NewOrderRepository(container.GetMongo()),
		mongodb.NewCourseRepository(container.GetMongo()),
		mongodb.NewUserRepository(container.GetMongo()),
		container.GetRabbitPub(),
		container.GetLogger(),
	)
}

func buildECPayClient() *ecpay.Client {
	cfg := container.GetConfig()
	return ecpay.New(ecpay.Config{
		MerchantID:    cfg.ECPayMerchantID,
		HashKey:       cfg.ECPayHashKey,
		HashIV:        cfg.ECPayHashIV,
		ReturnURL:     cfg.ECPayHost + "/api/ecpay/return",
		ClientBackURL: cfg.ECPayHost + "/api/ecpay/clientReturn",
	})
}

// InitModules wires repositories, services and handlers from the container
// singletons and registers every feature module. Call once at startup.
func InitModules(r *Registry) {
	log := container.GetLogger()
	jwt := container.GetJWT()

	userSvc := buildUserService()
	courseSvc := buildCourseService()
	orderSvc := buildOrderService()

	r.Add(
		modules.NewUserModule(handlers.NewUserHandler(userSvc, log), jwt),
		modules.NewCourseModule(handlers.NewCourseHandler(courseSvc, userSvc, log), jwt),
		modules.NewOrderModule(handlers.NewOrderHandler(orderSvc, log), jwt),
		modules.NewECPayModule(handlers.NewECPayHandler(
			buildECPayClient(),
			container.GetConfig().ECPayClientBackURL,
			log,
		)),
	)
}
