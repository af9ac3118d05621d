package controllers

import (
	"cursos/middleware"

	"github.com/gofiber/fiber/v2"
)

// CompleteMaterial marks a material as finished for the caller's
// enrollment. Idempotent; completing an already-done material reports
// accepted=false.
func CompleteMaterial(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	materialID := c.Locals("materialID").(int)

	result, err := svc.RegisterCompletion(userID, uint(enrollmentID), uint(materialID))
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completion registered!", result)
}

// GetCourseOutline returns the enrollment's modules with accessibility and
// completeness, plus materials for unlocked modules.
func GetCourseOutline(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)

	outline, err := svc.CourseOutline(userID, uint(enrollmentID))
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course outline fetched!", fiber.Map{
		"modules": outline,
	})
}
