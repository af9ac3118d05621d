package course

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentPendingReview = "PENDING_REVIEW"
	PaymentApproved      = "APPROVED"
	PaymentRejected      = "REJECTED"
)

const (
	MethodMpesa        = "MPESA"
	MethodEmola        = "EMOLA"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodFree         = "FREE"
)

// Payment is one purchase-intent submission against an enrollment.
// A rejected payment is never overwritten; resubmission appends a new row
// so the review audit trail survives.
type Payment struct {
	gorm.Model
	EnrollmentID   uint       `json:"enrollment_id" gorm:"index;not null"`
	Amount         float64    `json:"amount"`
	Method         string     `json:"method"` // MPESA, EMOLA, BANK_TRANSFER, FREE
	ProofURL       *string    `json:"proof_url"`
	Notes          string     `json:"notes"`
	Status         string     `json:"status" gorm:"default:'PENDING_REVIEW'"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	DecidedAt      *time.Time `json:"decided_at"`
	DecidedBy      *uint      `json:"decided_by"`
	DecisionReason *string    `json:"decision_reason"`
	IsDeleted      bool       `gorm:"default:false"`
}
