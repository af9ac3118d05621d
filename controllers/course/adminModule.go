package controllers

import (
	"cursos/middleware"
	courseModels "cursos/models/course"
	"cursos/services"

	"github.com/gofiber/fiber/v2"
)

// CreateModule appends a module at the end of a course
func CreateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	reqData := c.Locals("validatedModule").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description"`
	})

	module, err := svc.CreateModule(userID, uint(courseID), reqData.Title, reqData.Description)
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// UpdateModule edits module metadata (title/description only; started
// modules are otherwise frozen).
func UpdateModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	reqData := c.Locals("validatedModule").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description"`
	})

	module, err := svc.UpdateModuleMetadata(userID, uint(moduleID), reqData.Title, reqData.Description)
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// ReorderModules reflows the module order of a course
func ReorderModules(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	reqData := c.Locals("validatedReorder").(*struct {
		ModuleIDs []uint `json:"module_ids" validate:"required,min=1"`
	})

	if err := svc.ReflowModules(userID, uint(courseID), reqData.ModuleIDs); err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", nil)
}

// CreateMaterial adds a material to a module
func CreateMaterial(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	reqData := c.Locals("validatedMaterial").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		ContentType string `json:"content_type" validate:"required,oneof=TEXT VIDEO DOCUMENT LINK"`
		TextContent string `json:"text_content" validate:"required_if=ContentType TEXT"`
		ContentURL  string `json:"content_url" validate:"required_unless=ContentType TEXT,omitempty,url"`
		OrderIndex  int    `json:"order_index" validate:"gte=0"`
	})

	material, err := svc.CreateMaterial(userID, uint(moduleID), courseModels.Material{
		Title:       reqData.Title,
		ContentType: reqData.ContentType,
		TextContent: reqData.TextContent,
		ContentURL:  reqData.ContentURL,
		OrderIndex:  reqData.OrderIndex,
	})
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Material created successfully!", material)
}

// CreateQuiz attaches the gating quiz of a module
func CreateQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	reqData := c.Locals("validatedQuiz").(*struct {
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

	questions := make([]services.QuestionInput, len(reqData.Questions))
	for i, q := range reqData.Questions {
		options := make([]services.OptionInput, len(q.Options))
		for j, opt := range q.Options {
			options[j] = services.OptionInput{Text: opt.Text, IsCorrect: opt.IsCorrect}
		}
		questions[i] = services.QuestionInput{Text: q.Text, Points: q.Points, Options: options}
	}

	quiz, err := svc.CreateQuiz(userID, uint(moduleID), reqData.Title, reqData.PassingPercent, reqData.TimeLimitSeconds, questions)
	if err != nil {
		return middleware.JsonResponse(c, statusForError(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}
