package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/exam-registration/internal/handler"
	"github.com/iliyamo/exam-registration/internal/middleware"
	"github.com/iliyamo/exam-registration/internal/model"
)

// RegisterStudent registers the student-scoped endpoints under /v1.
// All routes require a valid JWT and the STUDENT role.  Students manage
// their profile, browse the exam catalogue, register for exams and read
// their notification feed.
func RegisterStudent(e *echo.Echo,
	p *handler.ProfileHandler,
	x *handler.ExamHandler,
	r *handler.RegistrationHandler,
	n *handler.NotificationHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStudent),
	)

	g.GET("/profile", p.Get)
	g.PUT("/profile", p.Update)

	g.GET("/exams", x.List)
	g.GET("/exams/:id", x.Get)
	g.GET("/exams/:id/locations", x.ListLocations)

	g.POST("/registrations", r.Create)
	g.GET("/my-registrations", r.ListMine)
	g.GET("/registrations/:application_id", r.Get)
	g.DELETE("/registrations/:application_id", r.Cancel)

	g.GET("/notifications", n.ListMine)
	g.POST("/notifications/:id/read", n.MarkRead)
}
