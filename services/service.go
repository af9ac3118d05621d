package services

import (
	courseModels "cursos/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier is the outbound notification sink. Delivery (email, push) is an
// external concern; implementations must not block the calling transaction.
type Notifier interface {
	Notify(userID uint, title, message, link string)
}

// CertificateData is what a renderer needs to produce the document
type CertificateData struct {
	LearnerID        uint
	CourseID         uint
	VerificationCode string
}

// CertificateRenderer produces the certificate artifact and returns an
// opaque reference to it.
type CertificateRenderer interface {
	Render(data CertificateData) (string, error)
}

// Service owns the enrollment lifecycle: payment ledger, enrollment state
// machine, progress/unlock engine, quiz scoring and certificate issuance.
// All mutating operations run in a single transaction holding a row lock on
// the enrollment, so writers on the same enrollment never interleave.
type Service struct {
	db       *gorm.DB
	notifier Notifier
	renderer CertificateRenderer
}

// New builds a Service. notifier and renderer may be nil: notifications are
// then dropped and certificates get a locally generated artifact path.
func New(db *gorm.DB, notifier Notifier, renderer CertificateRenderer) *Service {
	return &Service{db: db, notifier: notifier, renderer: renderer}
}

func (s *Service) notify(userID uint, title, message, link string) {
	if s.notifier != nil {
		s.notifier.Notify(userID, title, message, link)
	}
}

// lockEnrollment loads the enrollment under a FOR UPDATE row lock so that
// no other writer can interleave between our read and write. SQLite has no
// row locks but serializes writers on its own, so the clause is skipped
// there.
func lockEnrollment(tx *gorm.DB, enrollmentID uint) (*courseModels.Enrollment, error) {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var enrollment courseModels.Enrollment
	if err := q.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}
