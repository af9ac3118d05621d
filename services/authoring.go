package services

import (
	"fmt"

	courseModels "cursos/models/course"

	"gorm.io/gorm"
)

// QuestionInput is one question of a quiz being authored
type QuestionInput struct {
	Text    string
	Points  int
	Options []OptionInput
}

// OptionInput is one answer choice of a question being authored
type OptionInput struct {
	Text      string
	IsCorrect bool
}

// ownedCourse loads a course and checks the caller authored it
func ownedCourse(tx *gorm.DB, instructorID, courseID uint) (*courseModels.Course, error) {
	var crs courseModels.Course
	if err := tx.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: course %d", ErrNotFound, courseID)
		}
		return nil, err
	}
	if crs.AuthorID != instructorID {
		return nil, fmt.Errorf("%w: user %d does not own course %d", ErrNotAuthorized, instructorID, courseID)
	}
	return &crs, nil
}

// moduleHasProgress reports whether any enrollment recorded progress
// against the module (a completion or a quiz attempt). Such modules only
// accept metadata edits.
func moduleHasProgress(tx *gorm.DB, moduleID uint) (bool, error) {
	var count int64
	if err := tx.Model(&courseModels.MaterialCompletion{}).
		Joins("JOIN materials ON materials.id = material_completions.material_id").
		Where("materials.module_id = ?", moduleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := tx.Model(&courseModels.QuizAttempt{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Where("quizzes.module_id = ?", moduleID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateModule appends a module at the end of the course's order
func (s *Service) CreateModule(instructorID, courseID uint, title, description string) (*courseModels.Module, error) {
	var module *courseModels.Module
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedCourse(tx, instructorID, courseID); err != nil {
			return err
		}
		var maxOrder int
		row := tx.Model(&courseModels.Module{}).
			Where("course_id = ? AND is_deleted = ?", courseID, false).
			Select("COALESCE(MAX(order_index), 0)").Row()
		if err := row.Scan(&maxOrder); err != nil {
			return err
		}

		module = &courseModels.Module{
			CourseID:    courseID,
			Title:       title,
			Description: description,
			OrderIndex:  maxOrder + 1,
		}
		return tx.Create(module).Error
	})
	if err != nil {
		return nil, err
	}
	return module, nil
}

// UpdateModuleMetadata edits title/description. Allowed even after learners
// recorded progress; everything else about a started module is frozen.
func (s *Service) UpdateModuleMetadata(instructorID, moduleID uint, title, description string) (*courseModels.Module, error) {
	var module courseModels.Module
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: module %d", ErrNotFound, moduleID)
			}
			return err
		}
		if _, err := ownedCourse(tx, instructorID, module.CourseID); err != nil {
			return err
		}
		module.Title = title
		module.Description = description
		return tx.Save(&module).Error
	})
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// ReflowModules renumbers a course's modules to the given order. orderedIDs
// must list every live module of the course exactly once; order indexes
// come out contiguous from 1.
func (s *Service) ReflowModules(instructorID, courseID uint, orderedIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := ownedCourse(tx, instructorID, courseID); err != nil {
			return err
		}

		var modules []courseModels.Module
		if err := tx.Where("course_id = ? AND is_deleted = ?", courseID, false).Find(&modules).Error; err != nil {
			return err
		}
		if len(orderedIDs) != len(modules) {
			return fmt.Errorf("reflow needs all %d modules of course %d, got %d", len(modules), courseID, len(orderedIDs))
		}
		byID := make(map[uint]*courseModels.Module, len(modules))
		for i := range modules {
			byID[modules[i].ID] = &modules[i]
		}

		for position, id := range orderedIDs {
			module, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: module %d is not part of course %d", ErrNotFound, id, courseID)
			}
			if err := tx.Model(module).Update("order_index", position+1).Error; err != nil {
				return err
			}
			delete(byID, id)
		}
		return nil
	})
}

// CreateMaterial adds a material to a module that no learner started yet
func (s *Service) CreateMaterial(instructorID, moduleID uint, material courseModels.Material) (*courseModels.Material, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var module courseModels.Module
		if err := tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: module %d", ErrNotFound, moduleID)
			}
			return err
		}
		if _, err := ownedCourse(tx, instructorID, module.CourseID); err != nil {
			return err
		}

		started, err := moduleHasProgress(tx, moduleID)
		if err != nil {
			return err
		}
		if started {
			return fmt.Errorf("%w: module %d already has learner progress", ErrInvalidState, moduleID)
		}

		material.ModuleID = moduleID
		return tx.Create(&material).Error
	})
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// CreateQuiz attaches the module's quiz with its questions and options.
// Exactly one option per question must be marked correct.
func (s *Service) CreateQuiz(instructorID, moduleID uint, title string, passingPercent float64, timeLimitSeconds *int, questions []QuestionInput) (*courseModels.Quiz, error) {
	var quiz *courseModels.Quiz
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var module courseModels.Module
		if err := tx.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: module %d", ErrNotFound, moduleID)
			}
			return err
		}
		if _, err := ownedCourse(tx, instructorID, module.CourseID); err != nil {
			return err
		}

		var existing courseModels.Quiz
		if err := tx.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&existing).Error; err == nil {
			return fmt.Errorf("%w: module %d already has a quiz", ErrInvalidState, moduleID)
		}

		if len(questions) == 0 {
			return fmt.Errorf("%w: a quiz needs at least one question", ErrQuizMisconfigured)
		}
		for i, q := range questions {
			correct := 0
			for _, opt := range q.Options {
				if opt.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				return fmt.Errorf("%w: question %d must have exactly one correct option, has %d", ErrQuizMisconfigured, i+1, correct)
			}
		}

		quiz = &courseModels.Quiz{
			ModuleID:         moduleID,
			Title:            title,
			PassingPercent:   passingPercent,
			TimeLimitSeconds: timeLimitSeconds,
		}
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}

		for i, q := range questions {
			points := q.Points
			if points < 1 {
				points = 1
			}
			question := courseModels.Question{
				QuizID:     quiz.ID,
				Text:       q.Text,
				Points:     points,
				OrderIndex: i + 1,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for j, opt := range q.Options {
				option := courseModels.Option{
					QuestionID: question.ID,
					Text:       opt.Text,
					IsCorrect:  opt.IsCorrect,
					OrderIndex: j + 1,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}
