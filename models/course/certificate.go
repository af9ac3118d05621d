package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is the terminal artifact of a completed enrollment.
// Issued at most once per enrollment; issuance is irreversible.
type Certificate struct {
	gorm.Model
	EnrollmentID     uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	VerificationCode string    `json:"verification_code" gorm:"uniqueIndex;not null"`
	IssuedAt         time.Time `json:"issued_at"`
	ArtifactURL      string    `json:"artifact_url"`
}
