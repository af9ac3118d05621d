package courseRoutes

import (
	controllers "cursos/controllers/course"
	"cursos/middleware"
	"cursos/models"
	validators "cursos/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupInstructorRoutes sets up course authoring and the payment review
// queue for instructors.
func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/instructor",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleInstructor, models.RoleAdmin))

	// Course authoring
	instructorGroup.Post("/course", validators.CreateCourse(), controllers.CreateCourse)
	instructorGroup.Post("/course/:id/publish", validators.CourseID(), controllers.PublishCourse)

	// Module authoring
	instructorGroup.Post("/course/:id/module", validators.CourseID(), validators.ModulePayload(), controllers.CreateModule)
	instructorGroup.Put("/module/:moduleId", validators.ModuleID(), validators.ModulePayload(), controllers.UpdateModule)
	instructorGroup.Post("/course/:id/modules/reorder", validators.CourseID(), validators.ReorderModules(), controllers.ReorderModules)

	// Material and quiz authoring
	instructorGroup.Post("/module/:moduleId/material", validators.ModuleID(), validators.CreateMaterial(), controllers.CreateMaterial)
	instructorGroup.Post("/module/:moduleId/quiz", validators.ModuleID(), validators.CreateQuiz(), controllers.CreateQuiz)

	// Payment review queue
	instructorGroup.Get("/payments/pending", controllers.GetPendingPayments)
	instructorGroup.Post("/payment/:paymentId/decide", validators.PaymentID(), validators.DecidePayment(), controllers.DecidePayment)

	// Administrative suspension of unpaid enrollments
	adminGroup := app.Group("/admin",
		middleware.JWTMiddleware,
		middleware.RequireRole(models.RoleAdmin))
	adminGroup.Post("/enrollment/:enrollmentId/suspend", validators.EnrollmentID(), controllers.SuspendEnrollment)
}
