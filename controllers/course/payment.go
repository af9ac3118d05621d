package controllers

import (
	"cursos/database"
	"cursos/middleware"
	courseModels "cursos/models/course"
	"cursos/services"
	"cursos/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitPaymentProof uploads the proof-of-payment image and appends the
// payment to the review queue.
func SubmitPaymentProof(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	reqData := c.Locals("validatedProof").(*struct {
		Method string  `form:"method" validate:"required,oneof=MPESA EMOLA BANK_TRANSFER"`
		Amount float64 `form:"amount" validate:"required,gt=0"`
		Notes  string  `form:"notes"`
	})

	file, err := c.FormFile("proof")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment proof file is required!", nil)
	}

	storedPath, err := utils.SaveUploadedFile(file, "proofs")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store payment proof!", nil)
	}

	payment, err := svc.SubmitProof(userID, uint(enrollmentID), services.ProofSubmission{
		ProofURL: utils.GetFileURL(storedPath),
		Method:   reqData.Method,
		Amount:   reqData.Amount,
		Notes:    reqData.Notes,
	})
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Payment proof submitted for review!", payment)
}

// DecidePayment records the instructor's approve/reject decision
func DecidePayment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	paymentID := c.Locals("paymentID").(int)
	reqData := c.Locals("validatedDecision").(*struct {
		Outcome string `json:"outcome" validate:"required,oneof=APPROVE REJECT"`
		Reason  string `json:"reason" validate:"required_if=Outcome REJECT,omitempty,min=10"`
	})

	payment, err := svc.Decide(userID, uint(paymentID), reqData.Outcome, reqData.Reason)
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment decision recorded!", payment)
}

// GetPendingPayments lists payments awaiting decision for courses the
// caller owns.
func GetPendingPayments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var payments []courseModels.Payment
	if err := database.Database.Db.
		Joins("JOIN enrollments ON enrollments.id = payments.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("payments.status = ? AND payments.is_deleted = ? AND courses.author_id = ?",
			courseModels.PaymentPendingReview, false, userID).
		Order("payments.submitted_at asc").
		Find(&payments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch pending payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending payments fetched!", fiber.Map{
		"payments": payments,
		"total":    len(payments),
	})
}
