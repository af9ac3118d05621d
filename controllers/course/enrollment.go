package controllers

import (
	"cursos/database"
	"cursos/middleware"
	courseModels "cursos/models/course"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse records a purchase intent for the caller. Free courses
// come back active immediately; paid ones wait for a payment proof.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	enrollment, err := svc.CreateIntent(userID, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// GetEnrollments lists the caller's enrollments with derived progress
func GetEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").
		Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type enrollmentWithProgress struct {
		courseModels.Enrollment
		CourseTitle     string  `json:"course_title"`
		ProgressPercent float64 `json:"progress_percent"`
	}

	result := make([]enrollmentWithProgress, len(enrollments))
	for i, e := range enrollments {
		var crs courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&crs)

		_, percent, err := svc.GetEnrollment(e.ID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
		}
		result[i] = enrollmentWithProgress{Enrollment: e, CourseTitle: crs.Title, ProgressPercent: percent}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}

// SuspendEnrollment administratively freezes an unpaid enrollment
func SuspendEnrollment(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	enrollment, err := svc.Suspend(adminID, uint(enrollmentID))
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment suspended!", enrollment)
}
