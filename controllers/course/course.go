package controllers

import (
	"cursos/database"
	"cursos/middleware"
	courseModels "cursos/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetCourses lists active courses for browsing
func GetCourses(c *fiber.Ctx) error {
	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("is_deleted = ? AND status = ?", false, courseModels.CourseActive).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"total":   len(courses),
	})
}

// CreateCourse creates a draft course owned by the caller
func CreateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedCourse").(*struct {
		Title       string  `json:"title" validate:"required,min=3"`
		Description string  `json:"description"`
		Price       float64 `json:"price" validate:"gte=0"`
		IsFree      bool    `json:"is_free"`
	})

	crs := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		AuthorID:    userID,
		Price:       reqData.Price,
		IsFree:      reqData.IsFree,
		Status:      courseModels.CourseDraft,
	}
	if err := database.Database.Db.Create(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", crs)
}

// PublishCourse flips a draft course to ACTIVE so learners can enroll
func PublishCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var crs courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if crs.AuthorID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	crs.Status = courseModels.CourseActive
	if err := database.Database.Db.Save(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course published!", crs)
}
