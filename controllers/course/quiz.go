package controllers

import (
	"cursos/middleware"
	courseModels "cursos/models/course"

	"github.com/gofiber/fiber/v2"
)

// StartQuizAttempt opens a new attempt against a module's quiz
func StartQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(int)
	quizID := c.Locals("quizID").(int)

	attempt, err := svc.StartAttempt(userID, uint(enrollmentID), uint(quizID))
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz attempt started!", attempt)
}

// SubmitQuizAttempt scores the caller's answers and advances the unlock
// engine on a pass.
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	attemptID := c.Locals("attemptID").(int)
	reqData := c.Locals("validatedAnswers").(*struct {
		Answers []courseModels.Answer `json:"answers" validate:"required,dive"`
	})

	result, err := svc.SubmitAttempt(userID, uint(attemptID), reqData.Answers)
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempt submitted!", result)
}
