package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nbd-crr/internal/app"
	"nbd-crr/internal/authz"
	"nbd-crr/internal/controllers"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/services"
	"nbd-crr/pkg/middleware"
)

func InitRouter(e *echo.Echo, a *app.App) {
	logger := a.Logger
	logger.Info("InitRouter: Начало создания маршрутов")

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(a.JWT, a.Auth, logger.Named("auth"))
	secure := api.Group("", authMW.Auth)

	runAuthRouter(api, secure, controllers.NewAuthController(a.Auth, a.JWT, logger))
	runDashboardRouter(secure, controllers.NewDashboardController(a.Dashboard, logger), authMW)
	runStageRouter(secure, controllers.NewStageController(a.Stages, logger), authMW)
	runFormRouter(secure, controllers.NewFormController(a.Submissions, logger), authMW)
	runLookupRouter(secure,
		controllers.NewDropdownController(a.Dropdowns, logger),
		controllers.NewSequenceController(a.Sequences, logger),
	)
	runUserRouter(secure,
		controllers.NewUserController(a.Users, logger),
		controllers.NewSubmissionController(a.Submissions, logger),
		authMW,
	)
	secure.GET("/ws", controllers.NewWebSocketController(a.Hub, logger.Named("ws")).ServeWs)

	logger.Info("InitRouter: Создание маршрутов завершено", zap.Int("routes", len(e.Routes())))
}

func runAuthRouter(api, secure *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/auth/login", ctrl.Login)
	secure.POST("/auth/logout", ctrl.Logout)
	secure.GET("/auth/me", ctrl.Me)
}

func runDashboardRouter(secure *echo.Group, ctrl *controllers.DashboardController, authMW *middleware.AuthMiddleware) {
	secure.GET("/dashboard", ctrl.GetStats, authMW.Require(authz.Dashboard))
}

// У каждого этапа свой флаг, поэтому маршруты регистрируются по списку этапов.
func runStageRouter(secure *echo.Group, ctrl *controllers.StageController, authMW *middleware.AuthMiddleware) {
	for _, l := range pipeline.Stages() {
		g := secure.Group("/stages/"+string(l.Stage), authMW.Require(l.Flag))
		g.GET("/pending", ctrl.Pending(l.Stage))
		g.GET("/history", ctrl.History(l.Stage))
	}
}

func runFormRouter(secure *echo.Group, ctrl *controllers.FormController, authMW *middleware.AuthMiddleware) {
	forms := secure.Group("/forms")

	handlers := map[string]echo.HandlerFunc{
		services.FormNewEnquiry:          ctrl.NewEnquiry,
		services.FormOnCallFollowup:      ctrl.OnCallFollowup,
		services.FormUpdateQuotation:     ctrl.UpdateQuotation,
		services.FormQuotationValidation: ctrl.QuotationValidation,
		services.FormScreenshotUpdate:    ctrl.ScreenshotUpdate,
		services.FormFollowupSteps:       ctrl.FollowupSteps,
		services.FormOrderStatus:         ctrl.OrderStatus,
		services.FormMakeQuotation:       ctrl.MakeQuotation,
	}
	for form, h := range handlers {
		forms.POST("/"+form, h, authMW.Require(formFlag(form)))
	}
}

// formFlag: формы этапов открываются тем же флагом, что и страница этапа.
func formFlag(form string) string {
	switch form {
	case services.FormNewEnquiry:
		return authz.NewEnquiry
	case services.FormMakeQuotation:
		return authz.MakeQuotation
	}
	if l, ok := pipeline.LayoutOf(pipeline.Stage(form)); ok {
		return l.Flag
	}
	return authz.Settings
}

func runLookupRouter(secure *echo.Group, dropdowns *controllers.DropdownController, sequences *controllers.SequenceController) {
	secure.GET("/dropdowns", dropdowns.GetOptions)
	secure.GET("/sequences/enquiry", sequences.Preview(services.SequenceEnquiry))
	secure.GET("/sequences/quotation", sequences.Preview(services.SequenceQuotation))
}

func runUserRouter(secure *echo.Group, users *controllers.UserController, journal *controllers.SubmissionController, authMW *middleware.AuthMiddleware) {
	admin := secure.Group("", authMW.Require(authz.UserManagement))
	admin.GET("/users", users.GetUsers)
	admin.POST("/users", users.CreateUser)
	admin.GET("/submissions", journal.GetRecent)
}
