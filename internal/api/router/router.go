package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AliMohammadiiii/PRS-sub001/internal/api/handler"
	"github.com/AliMohammadiiii/PRS-sub001/internal/api/middleware"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
)

func Setup(
	authHandler *handler.AuthHandler,
	requestHandler *handler.RequestHandler,
	actionHandler *handler.ActionHandler,
	attachmentHandler *handler.AttachmentHandler,
	templateHandler *handler.TemplateHandler,
	teamHandler *handler.TeamHandler,
	lookupHandler *handler.LookupHandler,
	authService *service.AuthService,
	approvalRepo *repository.ApprovalRepository,
	maxUploadMB int,
	mode string,
) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()

	r.MaxMultipartMemory = int64(maxUploadMB) << 20

	r.Use(middleware.RecoveryMiddleware())
	r.Use(gin.Logger())
	r.Use(middleware.CORS())
	r.Use(middleware.MetricsMiddleware())

	api := r.Group("/api")

	// Public endpoints
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	authenticated.Use(middleware.OperationLogMiddleware(approvalRepo))
	{
		authenticated.GET("/auth/me", authHandler.Me)
		authenticated.GET("/me/roles", teamHandler.MyRoles)

		// Lookups
		authenticated.GET("/lookups/:group", lookupHandler.ListGroup)

		// Teams and template resolution
		authenticated.GET("/teams", teamHandler.List)
		authenticated.GET("/teams/:id", teamHandler.Get)
		authenticated.GET("/teams/:id/effective-template", templateHandler.EffectiveTemplate)
		authenticated.GET("/teams/:id/form-template", templateHandler.LegacyTemplate) // legacy clients
		authenticated.GET("/teams/:id/members", teamHandler.Members)
		authenticated.GET("/teams/:id/attachment-categories", attachmentHandler.CategoriesByTeam)

		// Purchase requests
		requests := authenticated.Group("/requests")
		{
			requests.GET("", requestHandler.List)
			requests.POST("", requestHandler.Create)
			requests.GET("/summary", requestHandler.Summary)
			requests.GET("/:id", requestHandler.Get)
			requests.PUT("/:id", requestHandler.Update)
			requests.GET("/:id/render", requestHandler.Render)
			requests.POST("/:id/submit", actionHandler.Submit)
			requests.POST("/:id/cancel", requestHandler.Cancel)
			requests.POST("/:id/approve", actionHandler.Approve)
			requests.POST("/:id/reject", actionHandler.Reject)
			requests.POST("/:id/complete", actionHandler.Complete)

			requests.GET("/:id/approvals", requestHandler.History)

			requests.GET("/:id/attachments", attachmentHandler.List)
			requests.GET("/:id/attachment-categories", attachmentHandler.Categories)
			requests.POST("/:id/attachments", attachmentHandler.Upload)
			requests.GET("/:id/attachments/:attachment_id", attachmentHandler.Download)
			requests.DELETE("/:id/attachments/:attachment_id", attachmentHandler.Delete)
		}

		// Administration
		admin := authenticated.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/users", authHandler.ListUsers)

			admin.POST("/teams", teamHandler.Save)
			admin.PUT("/teams/:id", teamHandler.Save)
			admin.DELETE("/teams/:id", teamHandler.Delete)
			admin.POST("/members/roles", teamHandler.AssignRoles)

			admin.GET("/form-templates", templateHandler.ListFormTemplates)
			admin.GET("/form-templates/:id", templateHandler.GetFormTemplate)
			admin.POST("/form-templates", templateHandler.SaveFormTemplate)
			admin.PUT("/form-templates/:id", templateHandler.SaveFormTemplate)
			admin.DELETE("/form-templates/:id", templateHandler.DeleteFormTemplate)

			admin.GET("/workflow-templates", templateHandler.ListWorkflowTemplates)
			admin.GET("/workflow-templates/:id", templateHandler.GetWorkflowTemplate)
			admin.POST("/workflow-templates", templateHandler.SaveWorkflowTemplate)
			admin.PUT("/workflow-templates/:id", templateHandler.SaveWorkflowTemplate)

			admin.GET("/teams/:id/bindings", templateHandler.ListBindings)
			admin.POST("/teams/:id/bindings", templateHandler.SaveBinding)
			admin.DELETE("/bindings/:binding_id", templateHandler.DeleteBinding)

			admin.POST("/lookups", lookupHandler.Save)
		}
	}

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"type":   "api-server",
		})
	})
	r.HEAD("/api/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "not found",
		})
	})

	return r
}
