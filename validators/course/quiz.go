package courseValidator

import (
	"cursos/middleware"
	courseModels "cursos/models/course"

	"github.com/gofiber/fiber/v2"
)

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title            string  `json:"title" validate:"required,min=3"`
			PassingPercent   float64 `json:"passing_percent" validate:"required,gt=0,lte=100"`
			TimeLimitSeconds *int    `json:"time_limit_seconds" validate:"omitempty,gt=0"`
			Questions        []struct {
				Text    string `json:"text" validate:"required"`
				Points  int    `json:"points" validate:"gte=1"`
				Options []struct {
					Text      string `json:"text" validate:"required"`
					IsCorrect bool   `json:"is_correct"`
				} `json:"options" validate:"required,min=2,dive"`
			} `json:"questions" validate:"required,min=1,dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func SubmitAnswers() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []courseModels.Answer `json:"answers" validate:"required,dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedAnswers", reqData)
		return c.Next()
	}
}
