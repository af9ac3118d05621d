package services

import (
	"fmt"
	"strings"
	"time"

	courseModels "cursos/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// codeAttempts bounds the verification-code collision retry loop. UUID
// collisions are effectively impossible, the retry just makes the unique
// index a guarantee instead of a crash.
const codeAttempts = 3

// issue creates the certificate for a freshly completed enrollment, inside
// the transaction that completed it. Safe to retry after a crash: a second
// call fails with ErrAlreadyIssued.
func (s *Service) issue(tx *gorm.DB, enrollment *courseModels.Enrollment) (*courseModels.Certificate, error) {
	var existing courseModels.Certificate
	if err := tx.Where("enrollment_id = ?", enrollment.ID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: certificate %s", ErrAlreadyIssued, existing.VerificationCode)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	code, err := freshVerificationCode(tx)
	if err != nil {
		return nil, err
	}

	artifactURL := fmt.Sprintf("/certificates/%s.pdf", code)
	if s.renderer != nil {
		rendered, err := s.renderer.Render(CertificateData{
			LearnerID:        enrollment.UserID,
			CourseID:         enrollment.CourseID,
			VerificationCode: code,
		})
		if err != nil {
			return nil, fmt.Errorf("render certificate: %w", err)
		}
		artifactURL = rendered
	}

	cert := courseModels.Certificate{
		EnrollmentID:     enrollment.ID,
		VerificationCode: code,
		IssuedAt:         time.Now(),
		ArtifactURL:      artifactURL,
	}
	if err := tx.Create(&cert).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

func freshVerificationCode(tx *gorm.DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
		var count int64
		if err := tx.Model(&courseModels.Certificate{}).Where("verification_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique verification code after %d attempts", codeAttempts)
}

// CertificateFor returns the certificate of an enrollment, if issued.
// Idempotent query for completed enrollments; never re-fires issuance.
func (s *Service) CertificateFor(enrollmentID uint) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	if err := s.db.Where("enrollment_id = ?", enrollmentID).First(&cert).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// VerifyCertificate resolves a shareable verification code to the
// certificate it belongs to. Public lookup, no identity required.
func (s *Service) VerifyCertificate(code string) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	if err := s.db.Where("verification_code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&cert).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}
