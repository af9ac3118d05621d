package services

import (
	"fmt"

	courseModels "cursos/models/course"
)

// ModuleStatus is one row of a learner's course outline
type ModuleStatus struct {
	Module     courseModels.Module     `json:"module"`
	Materials  []courseModels.Material `json:"materials"`
	Accessible bool                    `json:"accessible"`
	Complete   bool                    `json:"complete"`
	QuizID     *uint                   `json:"quiz_id,omitempty"`
}

// CourseOutline lists the enrollment's modules in order with their
// accessibility and completeness. Materials are only included for
// accessible modules.
func (s *Service) CourseOutline(learnerID, enrollmentID uint) ([]ModuleStatus, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, ErrNotFound
	}
	if enrollment.UserID != learnerID {
		return nil, fmt.Errorf("%w: enrollment %d does not belong to user %d", ErrNotAuthorized, enrollmentID, learnerID)
	}

	var modules []courseModels.Module
	if err := s.db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return nil, err
	}

	outline := make([]ModuleStatus, len(modules))
	for i := range modules {
		accessible, err := moduleAccessible(s.db, &enrollment, &modules[i])
		if err != nil {
			return nil, err
		}
		complete, err := moduleComplete(s.db, enrollment.ID, modules[i].ID)
		if err != nil {
			return nil, err
		}

		status := ModuleStatus{Module: modules[i], Accessible: accessible, Complete: complete}
		quiz, err := moduleQuiz(s.db, modules[i].ID)
		if err != nil {
			return nil, err
		}
		if quiz != nil {
			quizID := quiz.ID
			status.QuizID = &quizID
		}
		if accessible {
			if err := s.db.Where("module_id = ? AND is_deleted = ?", modules[i].ID, false).
				Order("order_index asc").Find(&status.Materials).Error; err != nil {
				return nil, err
			}
		}
		outline[i] = status
	}
	return outline, nil
}
