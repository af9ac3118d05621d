package services

import (
	"fmt"
	"strings"
	"time"

	"cursos/models"
	courseModels "cursos/models/course"

	"gorm.io/gorm"
)

// MinRejectionReasonLen is the shortest rejection reason accepted. A
// learner has to act on the reason, so one-word rejections are refused.
const MinRejectionReasonLen = 10

const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

// ProofSubmission carries a learner's proof-of-payment upload
type ProofSubmission struct {
	ProofURL string
	Method   string
	Amount   float64
	Notes    string
}

// CreateIntent records a purchase intent: it creates the one enrollment row
// for the (learner, course) pair. Free courses skip the review queue and
// come back already active, with a zero-value approved payment on the
// ledger.
func (s *Service) CreateIntent(learnerID, courseID uint) (*courseModels.Enrollment, error) {
	var enrollment *courseModels.Enrollment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var crs courseModels.Course
		if err := tx.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, courseModels.CourseActive).First(&crs).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: course %d", ErrNotFound, courseID)
			}
			return err
		}

		var existing courseModels.Enrollment
		if err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ?", learnerID, courseID, false).First(&existing).Error; err == nil {
			return fmt.Errorf("%w: enrollment %d is %s", ErrAlreadyEnrolled, existing.ID, existing.Status)
		}

		enrollment = &courseModels.Enrollment{
			UserID:   learnerID,
			CourseID: courseID,
			Status:   courseModels.EnrollmentPendingPayment,
		}
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}

		if !crs.IsFree {
			return nil
		}

		// Free course: record a zero-value approved payment and activate
		now := time.Now()
		payment := courseModels.Payment{
			EnrollmentID: enrollment.ID,
			Amount:       0,
			Method:       courseModels.MethodFree,
			Status:       courseModels.PaymentApproved,
			SubmittedAt:  &now,
			DecidedAt:    &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return markPaid(tx, enrollment)
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// SubmitProof appends a new pending payment carrying the uploaded proof and
// moves the enrollment into review. Submitting while a review is already
// pending fails with ErrDuplicateSubmission, which guards against
// double-upload races.
func (s *Service) SubmitProof(learnerID, enrollmentID uint, sub ProofSubmission) (*courseModels.Payment, error) {
	var payment *courseModels.Payment
	var authorID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		enrollment, err := lockEnrollment(tx, enrollmentID)
		if err != nil {
			return err
		}
		if enrollment.UserID != learnerID {
			return fmt.Errorf("%w: enrollment %d does not belong to user %d", ErrNotAuthorized, enrollmentID, learnerID)
		}

		switch enrollment.Status {
		case courseModels.EnrollmentPendingPayment:
			// ok
		case courseModels.EnrollmentPendingReview:
			return fmt.Errorf("%w: a payment is already under review", ErrDuplicateSubmission)
		default:
			return fmt.Errorf("%w: cannot submit proof while enrollment is %s", ErrInvalidState, enrollment.Status)
		}

		now := time.Now()
		proofURL := sub.ProofURL
		payment = &courseModels.Payment{
			EnrollmentID: enrollment.ID,
			Amount:       sub.Amount,
			Method:       sub.Method,
			ProofURL:     &proofURL,
			Notes:        sub.Notes,
			Status:       courseModels.PaymentPendingReview,
			SubmittedAt:  &now,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if err := transition(tx, enrollment, courseModels.EnrollmentPendingReview, "submitProof"); err != nil {
			return err
		}

		var crs courseModels.Course
		if err := tx.Where("id = ?", enrollment.CourseID).First(&crs).Error; err != nil {
			return err
		}
		authorID = crs.AuthorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(authorID, "New payment to review",
		fmt.Sprintf("A payment proof of %.2f MZN was submitted for enrollment %d.", payment.Amount, payment.EnrollmentID),
		"/instructor/payments/pending")
	return payment, nil
}

// Decide records the manual verification outcome of a pending payment.
// Only the course author may decide. Approval activates the enrollment;
// rejection sends it back to pending_payment so the learner can resubmit.
func (s *Service) Decide(deciderID, paymentID uint, outcome, reason string) (*courseModels.Payment, error) {
	if outcome == DecisionReject && len(strings.TrimSpace(reason)) < MinRejectionReasonLen {
		return nil, fmt.Errorf("rejection reason must be at least %d characters", MinRejectionReasonLen)
	}
	if outcome != DecisionApprove && outcome != DecisionReject {
		return nil, fmt.Errorf("unknown decision outcome %q", outcome)
	}

	var payment courseModels.Payment
	var learnerID, courseID uint
	var courseTitle string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND is_deleted = ?", paymentID, false).First(&payment).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: payment %d", ErrNotFound, paymentID)
			}
			return err
		}

		enrollment, err := lockEnrollment(tx, payment.EnrollmentID)
		if err != nil {
			return err
		}

		var crs courseModels.Course
		if err := tx.Where("id = ?", enrollment.CourseID).First(&crs).Error; err != nil {
			return err
		}

		var decider models.User
		if err := tx.Where("id = ? AND is_deleted = ?", deciderID, false).First(&decider).Error; err != nil {
			return fmt.Errorf("%w: decider %d", ErrNotFound, deciderID)
		}
		if crs.AuthorID != deciderID && decider.Role != models.RoleAdmin {
			return fmt.Errorf("%w: user %d does not own course %d", ErrNotAuthorized, deciderID, crs.ID)
		}

		if payment.Status != courseModels.PaymentPendingReview {
			return fmt.Errorf("%w: payment %d is %s, not pending review", ErrInvalidState, payment.ID, payment.Status)
		}

		now := time.Now()
		payment.DecidedAt = &now
		payment.DecidedBy = &deciderID
		if outcome == DecisionApprove {
			payment.Status = courseModels.PaymentApproved
			if reason != "" {
				payment.DecisionReason = &reason
			}
			if err := approve(tx, enrollment); err != nil {
				return err
			}
		} else {
			payment.Status = courseModels.PaymentRejected
			payment.DecisionReason = &reason
			if err := reject(tx, enrollment); err != nil {
				return err
			}
		}

		learnerID = enrollment.UserID
		courseID = crs.ID
		courseTitle = crs.Title
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	if payment.Status == courseModels.PaymentApproved {
		s.notify(learnerID, "Payment approved",
			fmt.Sprintf("Your payment for %q was approved. The course is now unlocked.", courseTitle),
			fmt.Sprintf("/courses/%d", courseID))
	} else {
		s.notify(learnerID, "Payment rejected",
			fmt.Sprintf("Your payment for %q was rejected: %s. You can submit a new proof.", courseTitle, reason),
			fmt.Sprintf("/enrollments/%d/payment", payment.EnrollmentID))
	}
	return &payment, nil
}

// PendingReviewCount returns how many payments await a decision across the
// courses an instructor owns.
func (s *Service) PendingReviewCount(instructorID uint) (int64, error) {
	var count int64
	err := s.db.Model(&courseModels.Payment{}).
		Joins("JOIN enrollments ON enrollments.id = payments.enrollment_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("payments.status = ? AND payments.is_deleted = ? AND courses.author_id = ?",
			courseModels.PaymentPendingReview, false, instructorID).
		Count(&count).Error
	return count, err
}
