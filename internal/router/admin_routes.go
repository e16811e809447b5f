package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-registration/internal/handler"
	"github.com/iliyamo/exam-registration/internal/middleware"
	"github.com/iliyamo/exam-registration/internal/model"
)

// RegisterAdmin registers the administrative endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN or SUPERADMIN role.
// Administrators manage the exam catalogue, review registrations and
// broadcast notifications.
func RegisterAdmin(e *echo.Echo,
	x *handler.ExamHandler,
	rv *handler.ReviewHandler,
	n *handler.NotificationHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
	)

	g.GET("/exams", x.List)
	g.POST("/exams", x.Create)
	g.POST("/exams/:id/locations", x.CreateLocation)

	g.GET("/registrations", rv.ListAll)
	g.POST("/registrations/:application_id/approve", rv.Approve)
	g.POST("/registrations/:application_id/reject", rv.Reject)

	g.POST("/notifications", n.Create)
}
