package courseValidator

import (
	"cursos/middleware"

	"github.com/gofiber/fiber/v2"
)

func ModulePayload() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3"`
			Description string `json:"description"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func ReorderModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ModuleIDs []uint `json:"module_ids" validate:"required,min=1"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

func CreateMaterial() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title" validate:"required,min=3"`
			ContentType string `json:"content_type" validate:"required,oneof=TEXT VIDEO DOCUMENT LINK"`
			TextContent string `json:"text_content" validate:"required_if=ContentType TEXT"`
			ContentURL  string `json:"content_url" validate:"required_unless=ContentType TEXT,omitempty,url"`
			OrderIndex  int    `json:"order_index" validate:"gte=0"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedMaterial", reqData)
		return c.Next()
	}
}
