package courseValidator

import (
	"cursos/middleware"

	"github.com/gofiber/fiber/v2"
)

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string  `json:"title" validate:"required,min=3"`
			Description string  `json:"description"`
			Price       float64 `json:"price" validate:"gte=0"`
			IsFree      bool    `json:"is_free"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		// A priced course cannot be free and vice versa
		if reqData.IsFree && reqData.Price > 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"price": "Free courses cannot have a price!",
			})
		}
		if !reqData.IsFree && reqData.Price <= 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"price": "Paid courses need a price greater than zero!",
			})
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}
