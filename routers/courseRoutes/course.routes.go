package courseRoutes

import (
	controllers "cursos/controllers/course"
	"cursos/middleware"
	validators "cursos/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Catalog
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetCourses)

	// Enrollment (purchase intent)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	enrollGroup := app.Group("/enrollment", middleware.JWTMiddleware)

	// Payment proof submission
	enrollGroup.Post("/:enrollmentId/payment", validators.EnrollmentID(), validators.SubmitProof(), controllers.SubmitPaymentProof)

	// Outline with per-module accessibility
	enrollGroup.Get("/:enrollmentId/outline", validators.EnrollmentID(), controllers.GetCourseOutline)

	// Material completion
	enrollGroup.Post("/:enrollmentId/material/:materialId/complete",
		validators.EnrollmentID(), validators.MaterialID(), controllers.CompleteMaterial)

	// Quiz attempts
	enrollGroup.Post("/:enrollmentId/quiz/:quizId/attempt",
		validators.EnrollmentID(), validators.QuizID(), controllers.StartQuizAttempt)

	attemptGroup := app.Group("/attempt", middleware.JWTMiddleware)
	attemptGroup.Post("/:attemptId/submit", validators.AttemptID(), validators.SubmitAnswers(), controllers.SubmitQuizAttempt)

	// User enrollments and certificates
	userGroup := app.Group("/user", middleware.JWTMiddleware)
	userGroup.Get("/enrollments", controllers.GetEnrollments)
	userGroup.Get("/certificates", controllers.GetMyCertificates)

	// Public certificate verification by shareable code
	app.Get("/certificates/verify/:code", controllers.VerifyCertificate)
}
