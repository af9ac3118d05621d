package services

import (
	"encoding/json"
	"fmt"
	"time"

	courseModels "cursos/models/course"

	"gorm.io/gorm"
)

// SubmitResult carries the score of a submitted attempt plus whatever the
// unlock engine derived from it (module/course completion).
type SubmitResult struct {
	AttemptID    uint             `json:"attempt_id"`
	ScorePercent float64          `json:"score_percent"`
	Passed       bool             `json:"passed"`
	Completion   CompletionResult `json:"completion"`
}

// StartAttempt opens a new attempt against a module's quiz. The quiz is the
// final gate of its module: the module must be accessible and every
// material in it already complete. The time limit, when set, is advisory
// and enforced by the caller's own timer; late submissions are still scored
// normally.
func (s *Service) StartAttempt(learnerID, enrollmentID, quizID uint) (*courseModels.QuizAttempt, error) {
	var attempt *courseModels.QuizAttempt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, err := lockEnrollment(tx, enrollmentID)
		if err != nil {
			return err
		}
		if enrollment.UserID != learnerID {
			return fmt.Errorf("%w: enrollment %d does not belong to user %d", ErrNotAuthorized, enrollmentID, learnerID)
		}

		var quiz courseModels.Quiz
		if err := tx.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: quiz %d", ErrNotFound, quizID)
			}
			return err
		}

		var module courseModels.Module
		if err := tx.Where("id = ? AND is_deleted = ?", quiz.ModuleID, false).First(&module).Error; err != nil {
			return fmt.Errorf("%w: module %d", ErrNotFound, quiz.ModuleID)
		}
		if module.CourseID != enrollment.CourseID {
			return fmt.Errorf("%w: quiz %d is not part of course %d", ErrNotFound, quizID, enrollment.CourseID)
		}

		accessible, err := moduleAccessible(tx, enrollment, &module)
		if err != nil {
			return err
		}
		if !accessible {
			return fmt.Errorf("%w: module %d is locked", ErrNotAccessible, module.ID)
		}

		materialsDone, err := materialsComplete(tx, enrollmentID, module.ID)
		if err != nil {
			return err
		}
		if !materialsDone {
			return fmt.Errorf("%w: finish the module materials before the quiz", ErrNotAccessible)
		}

		attempt = &courseModels.QuizAttempt{
			EnrollmentID: enrollmentID,
			QuizID:       quizID,
			Status:       courseModels.AttemptInProgress,
			StartedAt:    time.Now(),
		}
		return tx.Create(attempt).Error
	})
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

// SubmitAttempt scores an attempt and makes it the latest one for gating.
// Answer pairs that do not belong to the quiz's question set are silently
// ignored; unanswered questions score zero. Scoring is weighted by question
// points and the pass boundary is inclusive. Submitting twice fails with
// ErrAlreadySubmitted.
func (s *Service) SubmitAttempt(learnerID, attemptID uint, answers []courseModels.Answer) (*SubmitResult, error) {
	result := &SubmitResult{AttemptID: attemptID}
	var completedCourseUserID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var attempt courseModels.QuizAttempt
		if err := tx.Where("id = ?", attemptID).First(&attempt).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: attempt %d", ErrNotFound, attemptID)
			}
			return err
		}

		enrollment, err := lockEnrollment(tx, attempt.EnrollmentID)
		if err != nil {
			return err
		}
		if enrollment.UserID != learnerID {
			return fmt.Errorf("%w: attempt %d does not belong to user %d", ErrNotAuthorized, attemptID, learnerID)
		}
		if attempt.Status == courseModels.AttemptSubmitted {
			return fmt.Errorf("%w: attempt %d", ErrAlreadySubmitted, attemptID)
		}

		score, passed, err := scoreAnswers(tx, attempt.QuizID, answers)
		if err != nil {
			return err
		}

		answersJSON, err := json.Marshal(answers)
		if err != nil {
			return err
		}
		now := time.Now()
		attempt.Status = courseModels.AttemptSubmitted
		attempt.SubmittedAt = &now
		attempt.ScorePercent = score
		attempt.Passed = passed
		attempt.Answers = answersJSON
		if err := tx.Save(&attempt).Error; err != nil {
			return err
		}

		result.ScorePercent = score
		result.Passed = passed

		if !passed {
			return nil
		}

		// The quiz was the module's final completion condition; re-run the
		// unlock evaluation as if a material had just completed.
		var quiz courseModels.Quiz
		if err := tx.Where("id = ?", attempt.QuizID).First(&quiz).Error; err != nil {
			return err
		}
		var module courseModels.Module
		if err := tx.Where("id = ?", quiz.ModuleID).First(&module).Error; err != nil {
			return err
		}
		if err := s.evaluateModule(tx, enrollment, &module, &result.Completion); err != nil {
			return err
		}
		if result.Completion.CourseComplete {
			completedCourseUserID = enrollment.UserID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completion.CourseComplete {
		s.notify(completedCourseUserID, "Course completed",
			"Congratulations, you finished the course. Your certificate is ready.",
			"/certificates")
	}
	return result, nil
}

// scoreAnswers computes the weighted percentage for a set of answers.
// score = 100 * (points of correctly answered questions) / (total points).
func scoreAnswers(tx *gorm.DB, quizID uint, answers []courseModels.Answer) (float64, bool, error) {
	var quiz courseModels.Quiz
	if err := tx.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return 0, false, err
	}

	var questions []courseModels.Question
	if err := tx.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Find(&questions).Error; err != nil {
		return 0, false, err
	}
	if len(questions) == 0 {
		return 0, false, fmt.Errorf("%w: quiz %d has no questions", ErrQuizMisconfigured, quizID)
	}

	totalPoints := 0
	questionPoints := make(map[uint]int, len(questions))
	for _, q := range questions {
		points := q.Points
		if points < 1 {
			points = 1
		}
		questionPoints[q.ID] = points
		totalPoints += points
	}
	if totalPoints == 0 {
		return 0, false, fmt.Errorf("%w: quiz %d has zero total points", ErrQuizMisconfigured, quizID)
	}

	// Last pair wins when a question is answered twice in one submission
	chosen := make(map[uint]uint, len(answers))
	for _, a := range answers {
		if _, ok := questionPoints[a.QuestionID]; !ok {
			continue // not part of this quiz
		}
		chosen[a.QuestionID] = a.OptionID
	}

	earned := 0
	for questionID, optionID := range chosen {
		var option courseModels.Option
		err := tx.Where("id = ? AND question_id = ? AND is_deleted = ?", optionID, questionID, false).First(&option).Error
		if err == gorm.ErrRecordNotFound {
			continue // option from another question, dropped
		}
		if err != nil {
			return 0, false, err
		}
		if option.IsCorrect {
			earned += questionPoints[questionID]
		}
	}

	score := float64(earned) / float64(totalPoints) * 100
	return score, score >= quiz.PassingPercent, nil
}
