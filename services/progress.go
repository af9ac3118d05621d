package services

import (
	"errors"
	"fmt"

	courseModels "cursos/models/course"

	"gorm.io/gorm"
)

// CompletionResult describes what changed after registering a material
// completion. Callers own any user-facing flow built on top of it.
type CompletionResult struct {
	Accepted       bool  `json:"accepted"`        // false when the completion already existed
	ModuleComplete bool  `json:"module_complete"` // the owning module is now complete
	QuizRequired   bool  `json:"quiz_required"`   // materials done, quiz still outstanding
	QuizID         uint  `json:"quiz_id,omitempty"`
	CourseComplete bool  `json:"course_complete"` // every module is complete
	NextModuleID   *uint `json:"next_module_id"`  // newly accessible module, if any
}

// RegisterCompletion marks a material as done for an enrollment. It is
// idempotent on (enrollment, material): repeating a completion succeeds and
// reports Accepted=false. Completing the last material of a quiz-less
// module can unlock the next module and, when it was the last module,
// complete the whole course and issue the certificate in the same
// transaction.
func (s *Service) RegisterCompletion(learnerID, enrollmentID, materialID uint) (*CompletionResult, error) {
	result := &CompletionResult{}
	var completedCourseUserID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, err := lockEnrollment(tx, enrollmentID)
		if err != nil {
			return err
		}
		if enrollment.UserID != learnerID {
			return fmt.Errorf("%w: enrollment %d does not belong to user %d", ErrNotAuthorized, enrollmentID, learnerID)
		}

		var material courseModels.Material
		if err := tx.Where("id = ? AND is_deleted = ?", materialID, false).First(&material).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: material %d", ErrNotFound, materialID)
			}
			return err
		}

		var module courseModels.Module
		if err := tx.Where("id = ? AND is_deleted = ?", material.ModuleID, false).First(&module).Error; err != nil {
			return fmt.Errorf("%w: module %d", ErrNotFound, material.ModuleID)
		}
		if module.CourseID != enrollment.CourseID {
			return fmt.Errorf("%w: material %d is not part of course %d", ErrNotFound, materialID, enrollment.CourseID)
		}

		accessible, err := moduleAccessible(tx, enrollment, &module)
		if err != nil {
			return err
		}
		if !accessible {
			return fmt.Errorf("%w: module %d (order %d) is locked", ErrNotAccessible, module.ID, module.OrderIndex)
		}

		var existing courseModels.MaterialCompletion
		err = tx.Where("enrollment_id = ? AND material_id = ?", enrollmentID, materialID).First(&existing).Error
		switch err {
		case nil:
			// already complete, no-op
		case gorm.ErrRecordNotFound:
			completion := courseModels.MaterialCompletion{EnrollmentID: enrollmentID, MaterialID: materialID}
			if err := tx.Create(&completion).Error; err != nil {
				return err
			}
			result.Accepted = true
		default:
			return err
		}

		if err := s.evaluateModule(tx, enrollment, &module, result); err != nil {
			return err
		}
		if result.CourseComplete {
			completedCourseUserID = enrollment.UserID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.CourseComplete {
		s.notify(completedCourseUserID, "Course completed",
			"Congratulations, you finished the course. Your certificate is ready.",
			"/certificates")
	}
	return result, nil
}

// evaluateModule recomputes a module's completeness after a completion or a
// quiz pass and advances whatever follows from it: the next module becoming
// accessible, or the whole course completing (which issues the
// certificate). Runs inside the caller's transaction.
func (s *Service) evaluateModule(tx *gorm.DB, enrollment *courseModels.Enrollment, module *courseModels.Module, result *CompletionResult) error {
	materialsDone, err := materialsComplete(tx, enrollment.ID, module.ID)
	if err != nil {
		return err
	}
	if !materialsDone {
		return nil
	}

	quiz, err := moduleQuiz(tx, module.ID)
	if err != nil {
		return err
	}
	if quiz != nil {
		passed, err := quizPassed(tx, enrollment.ID, quiz.ID)
		if err != nil {
			return err
		}
		if !passed {
			result.QuizRequired = true
			result.QuizID = quiz.ID
			return nil
		}
	}

	result.ModuleComplete = true

	var next courseModels.Module
	err = tx.Where("course_id = ? AND order_index = ? AND is_deleted = ?", module.CourseID, module.OrderIndex+1, false).First(&next).Error
	switch err {
	case nil:
		nextID := next.ID
		result.NextModuleID = &nextID
	case gorm.ErrRecordNotFound:
		// last module
	default:
		return err
	}

	// Checked even when a next module exists: a re-passed earlier quiz can
	// leave every later module already complete.
	courseDone, err := s.courseComplete(tx, enrollment)
	if err != nil {
		return err
	}
	if !courseDone {
		return nil
	}

	if enrollment.Status == courseModels.EnrollmentCompleted {
		// retried trigger, certificate already handled
		result.CourseComplete = true
		return nil
	}
	if err := markCompleted(tx, enrollment); err != nil {
		return err
	}
	result.CourseComplete = true
	_, err = s.issue(tx, enrollment)
	if err != nil && !errors.Is(err, ErrAlreadyIssued) {
		return err
	}
	return nil
}

// ModuleAccessible answers "may this enrollment interact with module M".
// Order 1 unlocks with the enrollment; order n needs module n-1 complete.
func (s *Service) ModuleAccessible(enrollmentID, moduleID uint) (bool, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, ErrNotFound
		}
		return false, err
	}
	var module courseModels.Module
	if err := s.db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, ErrNotFound
		}
		return false, err
	}
	return moduleAccessible(s.db, &enrollment, &module)
}

// ModuleComplete answers "is module M complete for this enrollment"
func (s *Service) ModuleComplete(enrollmentID, moduleID uint) (bool, error) {
	return moduleComplete(s.db, enrollmentID, moduleID)
}

func moduleAccessible(tx *gorm.DB, enrollment *courseModels.Enrollment, module *courseModels.Module) (bool, error) {
	if !enrollment.ContentAccessible() {
		return false, nil
	}
	if module.OrderIndex <= 1 {
		return true, nil
	}

	var prev courseModels.Module
	if err := tx.Where("course_id = ? AND order_index = ? AND is_deleted = ?", module.CourseID, module.OrderIndex-1, false).First(&prev).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, fmt.Errorf("%w: course %d has no module at order %d", ErrNotFound, module.CourseID, module.OrderIndex-1)
		}
		return false, err
	}
	return moduleComplete(tx, enrollment.ID, prev.ID)
}

// moduleComplete: all materials completed and, when the module carries a
// quiz, the latest attempt passed.
func moduleComplete(tx *gorm.DB, enrollmentID, moduleID uint) (bool, error) {
	done, err := materialsComplete(tx, enrollmentID, moduleID)
	if err != nil || !done {
		return false, err
	}

	quiz, err := moduleQuiz(tx, moduleID)
	if err != nil {
		return false, err
	}
	if quiz == nil {
		return true, nil
	}
	return quizPassed(tx, enrollmentID, quiz.ID)
}

func materialsComplete(tx *gorm.DB, enrollmentID, moduleID uint) (bool, error) {
	var total, completed int64
	if err := tx.Model(&courseModels.Material{}).
		Where("module_id = ? AND is_deleted = ?", moduleID, false).
		Count(&total).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&courseModels.MaterialCompletion{}).
		Joins("JOIN materials ON materials.id = material_completions.material_id").
		Where("material_completions.enrollment_id = ? AND materials.module_id = ? AND materials.is_deleted = ?", enrollmentID, moduleID, false).
		Count(&completed).Error; err != nil {
		return false, err
	}
	return completed >= total, nil
}

func moduleQuiz(tx *gorm.DB, moduleID uint) (*courseModels.Quiz, error) {
	var quiz courseModels.Quiz
	err := tx.Where("module_id = ? AND is_deleted = ?", moduleID, false).First(&quiz).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// quizPassed checks the latest submitted attempt; earlier attempts are
// audit history only.
func quizPassed(tx *gorm.DB, enrollmentID, quizID uint) (bool, error) {
	var attempt courseModels.QuizAttempt
	err := tx.Where("enrollment_id = ? AND quiz_id = ? AND status = ?", enrollmentID, quizID, courseModels.AttemptSubmitted).
		Order("submitted_at desc, id desc").
		First(&attempt).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return attempt.Passed, nil
}

// courseComplete reports whether every module of the enrollment's course is
// complete.
func (s *Service) courseComplete(tx *gorm.DB, enrollment *courseModels.Enrollment) (bool, error) {
	var modules []courseModels.Module
	if err := tx.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return false, err
	}
	if len(modules) == 0 {
		return false, nil
	}
	for i := range modules {
		done, err := moduleComplete(tx, enrollment.ID, modules[i].ID)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
	}
	return true, nil
}

// progressPercent derives the enrollment's progress from completed
// materials over total course materials. Derived on read, never stored.
func (s *Service) progressPercent(tx *gorm.DB, enrollment *courseModels.Enrollment) (float64, error) {
	var total, completed int64
	if err := tx.Model(&courseModels.Material{}).
		Joins("JOIN modules ON modules.id = materials.module_id").
		Where("modules.course_id = ? AND modules.is_deleted = ? AND materials.is_deleted = ?", enrollment.CourseID, false, false).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	if err := tx.Model(&courseModels.MaterialCompletion{}).
		Where("enrollment_id = ?", enrollment.ID).
		Count(&completed).Error; err != nil {
		return 0, err
	}
	return float64(completed) / float64(total) * 100, nil
}
