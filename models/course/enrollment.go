package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentPendingPayment = "PENDING_PAYMENT"
	EnrollmentPendingReview  = "PENDING_REVIEW"
	EnrollmentActive         = "ACTIVE"
	EnrollmentCompleted      = "COMPLETED"
	EnrollmentSuspended      = "SUSPENDED"
)

// Enrollment is the learner-course relationship and its lifecycle state.
// Exactly one row per (user, course); rows are never physically deleted.
// Status changes only through the named operations in the services package.
type Enrollment struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	Status      string     `json:"status" gorm:"default:'PENDING_PAYMENT'"`
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// ContentAccessible reports whether the enrollment state grants any
// content access at all.
func (e *Enrollment) ContentAccessible() bool {
	return e.Status == EnrollmentActive || e.Status == EnrollmentCompleted
}
