package services

import (
	"time"

	courseModels "cursos/models/course"

	"gorm.io/gorm"
)

// enrollmentEdges is the full transition table of the enrollment state
// machine. Any edge not listed here fails with ErrInvalidTransition; no
// caller sets Status directly.
var enrollmentEdges = map[string][]string{
	courseModels.EnrollmentPendingPayment: {courseModels.EnrollmentPendingReview, courseModels.EnrollmentActive, courseModels.EnrollmentSuspended},
	courseModels.EnrollmentPendingReview:  {courseModels.EnrollmentActive, courseModels.EnrollmentPendingPayment, courseModels.EnrollmentSuspended},
	courseModels.EnrollmentActive:         {courseModels.EnrollmentCompleted},
	courseModels.EnrollmentCompleted:      {},
	courseModels.EnrollmentSuspended:      {},
}

// transition applies a named status change after checking the table. It
// writes the enrollment row inside the caller's transaction.
func transition(tx *gorm.DB, enrollment *courseModels.Enrollment, to, op string) error {
	allowed := false
	for _, next := range enrollmentEdges[enrollment.Status] {
		if next == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return invalidTransition(op, enrollment.Status, to)
	}

	enrollment.Status = to
	if to == courseModels.EnrollmentCompleted {
		now := time.Now()
		enrollment.CompletedAt = &now
	}
	return tx.Save(enrollment).Error
}

// markPaid activates an enrollment directly, used by the free-course path
func markPaid(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	return transition(tx, enrollment, courseModels.EnrollmentActive, "markPaid")
}

// approve activates an enrollment after a payment approval
func approve(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	return transition(tx, enrollment, courseModels.EnrollmentActive, "approve")
}

// reject sends an enrollment back to pending_payment for resubmission
func reject(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	return transition(tx, enrollment, courseModels.EnrollmentPendingPayment, "reject")
}

// markCompleted finishes an enrollment once every module is complete
func markCompleted(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	return transition(tx, enrollment, courseModels.EnrollmentCompleted, "markCompleted")
}

// Suspend administratively freezes an enrollment that has not been paid
// for yet. Active and completed enrollments cannot be suspended.
func (s *Service) Suspend(adminID, enrollmentID uint) (*courseModels.Enrollment, error) {
	var enrollment *courseModels.Enrollment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		enrollment, err = lockEnrollment(tx, enrollmentID)
		if err != nil {
			return err
		}
		return transition(tx, enrollment, courseModels.EnrollmentSuspended, "suspend")
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetEnrollment fetches an enrollment with its derived progress percent
func (s *Service) GetEnrollment(enrollmentID uint) (*courseModels.Enrollment, float64, error) {
	var enrollment courseModels.Enrollment
	if err := s.db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}

	percent, err := s.progressPercent(s.db, &enrollment)
	if err != nil {
		return nil, 0, err
	}
	return &enrollment, percent, nil
}
