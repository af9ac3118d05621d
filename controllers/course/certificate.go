package controllers

import (
	"cursos/database"
	"cursos/middleware"
	courseModels "cursos/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetMyCertificates lists the caller's issued certificates
func GetMyCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	type certificateWithCourse struct {
		courseModels.Certificate
		CourseTitle string `json:"course_title"`
	}

	var certificates []certificateWithCourse
	if err := database.Database.Db.Model(&courseModels.Certificate{}).
		Select("certificates.*, courses.title AS course_title").
		Joins("JOIN enrollments ON enrollments.id = certificates.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ?", userID).
		Order("certificates.issued_at desc").
		Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}

// VerifyCertificate resolves a shareable verification code. Public route,
// no authentication.
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification code is required!", nil)
	}

	cert, err := svc.VerifyCertificate(code)
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, "Certificate not found!", nil)
	}

	var enrollment courseModels.Enrollment
	database.Database.Db.Where("id = ?", cert.EnrollmentID).First(&enrollment)
	var crs courseModels.Course
	database.Database.Db.Where("id = ?", enrollment.CourseID).First(&crs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"certificate":  cert,
		"course_title": crs.Title,
		"issued_at":    cert.IssuedAt,
	})
}
