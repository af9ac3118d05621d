package controllers

import (
	"errors"

	"cursos/services"

	"github.com/gofiber/fiber/v2"
)

// svc is the enrollment/unlock engine, injected from main at startup
var svc *services.Service

// Init wires the course controllers to the service layer
func Init(s *services.Service) {
	svc = s
}

// statusForError maps a service error kind to an HTTP status code
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotAccessible):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrAlreadyIssued):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInvalidTransition):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrQuizMisconfigured):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusBadRequest
	}
}
