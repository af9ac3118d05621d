package courseValidator

import (
	"strconv"
	"strings"

	"cursos/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "Failed validation: " + fe.Tag()
		}
	} else {
		errors["request"] = err.Error()
	}
	return errors
}

// idParam validates a positive integer path parameter and stashes it under
// localKey.
func idParam(param, localKey, label string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params(param))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, label+" is required!", nil)
		}

		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid "+label+"!", nil)
		}

		c.Locals(localKey, id)
		return c.Next()
	}
}

func CourseID() fiber.Handler     { return idParam("id", "courseID", "Course ID") }
func EnrollmentID() fiber.Handler { return idParam("enrollmentId", "enrollmentID", "Enrollment ID") }
func ModuleID() fiber.Handler     { return idParam("moduleId", "moduleID", "Module ID") }
func MaterialID() fiber.Handler   { return idParam("materialId", "materialID", "Material ID") }
func QuizID() fiber.Handler       { return idParam("quizId", "quizID", "Quiz ID") }
func AttemptID() fiber.Handler    { return idParam("attemptId", "attemptID", "Attempt ID") }
func PaymentID() fiber.Handler    { return idParam("paymentId", "paymentID", "Payment ID") }
