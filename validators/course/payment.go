package courseValidator

import (
	"cursos/middleware"

	"github.com/gofiber/fiber/v2"
)

// SubmitProof validates the multipart form of a proof submission. The file
// itself is checked by the controller.
func SubmitProof() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Method string  `form:"method" validate:"required,oneof=MPESA EMOLA BANK_TRANSFER"`
			Amount float64 `form:"amount" validate:"required,gt=0"`
			Notes  string  `form:"notes"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedProof", reqData)
		return c.Next()
	}
}

// DecidePayment validates an approve/reject decision. Rejections carry a
// reason of at least 10 characters so the learner can act on it.
func DecidePayment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Outcome string `json:"outcome" validate:"required,oneof=APPROVE REJECT"`
			Reason  string `json:"reason" validate:"required_if=Outcome REJECT,omitempty,min=10"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedDecision", reqData)
		return c.Next()
	}
}
