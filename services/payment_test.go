package services

import (
	"testing"

	"cursos/models"
	courseModels "cursos/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntentPaidCourse(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)

	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentPendingPayment, enrollment.Status)

	var payments int64
	db.Model(&courseModels.Payment{}).Where("enrollment_id = ?", enrollment.ID).Count(&payments)
	assert.Zero(t, payments, "no payment row until a proof is submitted")
}

// Scenario: a free course activates immediately with a zero-value approved
// payment, no review step.
func TestCreateIntentFreeCourse(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 0, true)
	learner := createUser(t, db, models.RoleStudent)

	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)

	var payment courseModels.Payment
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&payment).Error)
	assert.Equal(t, courseModels.PaymentApproved, payment.Status)
	assert.Equal(t, courseModels.MethodFree, payment.Method)
	assert.Zero(t, payment.Amount)
}

func TestCreateIntentAlreadyEnrolled(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)

	_, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)

	_, err = svc.CreateIntent(learner.ID, crs.ID)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)
}

func TestCreateIntentInactiveCourse(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	require.NoError(t, db.Model(crs).Update("status", courseModels.CourseDraft).Error)
	learner := createUser(t, db, models.RoleStudent)

	_, err := svc.CreateIntent(learner.ID, crs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitProofMovesEnrollmentToReview(t *testing.T) {
	svc, db, notifier := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)

	payment, err := svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
		ProofURL: "/uploads/proofs/a.png",
		Method:   courseModels.MethodMpesa,
		Amount:   500,
	})
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentPendingReview, payment.Status)
	require.NotNil(t, payment.SubmittedAt)

	require.NoError(t, db.First(enrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentPendingReview, enrollment.Status)

	assert.Equal(t, 1, notifier.countFor(instructor.ID), "instructor is told about the new proof")
}

func TestSubmitProofDuplicateSubmission(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)

	sub := ProofSubmission{ProofURL: "/uploads/proofs/a.png", Method: courseModels.MethodMpesa, Amount: 500}
	_, err = svc.SubmitProof(learner.ID, enrollment.ID, sub)
	require.NoError(t, err)

	_, err = svc.SubmitProof(learner.ID, enrollment.ID, sub)
	assert.ErrorIs(t, err, ErrDuplicateSubmission)

	var payments int64
	db.Model(&courseModels.Payment{}).Where("enrollment_id = ?", enrollment.ID).Count(&payments)
	assert.EqualValues(t, 1, payments)
}

func TestSubmitProofWrongLearner(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)
	other := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)

	_, err = svc.SubmitProof(other.ID, enrollment.ID, ProofSubmission{
		ProofURL: "/uploads/proofs/a.png", Method: courseModels.MethodMpesa, Amount: 500,
	})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

// Scenario: proof rejected with a reason, learner resubmits, second proof
// approved, and a second approval of the same payment fails.
func TestRejectionAndResubmissionFlow(t *testing.T) {
	svc, db, notifier := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)

	first, err := svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
		ProofURL: "/uploads/proofs/blurry.png", Method: courseModels.MethodMpesa, Amount: 500,
	})
	require.NoError(t, err)

	rejected, err := svc.Decide(instructor.ID, first.ID, DecisionReject, "comprovante ilegível")
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentRejected, rejected.Status)
	require.NotNil(t, rejected.DecisionReason)
	assert.Equal(t, "comprovante ilegível", *rejected.DecisionReason)

	require.NoError(t, db.First(enrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentPendingPayment, enrollment.Status)
	assert.GreaterOrEqual(t, notifier.countFor(learner.ID), 1, "learner gets the rejection reason")

	second, err := svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
		ProofURL: "/uploads/proofs/clear.png", Method: courseModels.MethodMpesa, Amount: 500,
	})
	require.NoError(t, err)

	approved, err := svc.Decide(instructor.ID, second.ID, DecisionApprove, "")
	require.NoError(t, err)
	assert.Equal(t, courseModels.PaymentApproved, approved.Status)

	require.NoError(t, db.First(enrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentActive, enrollment.Status)

	// Audit trail: both payment rows kept
	var payments int64
	db.Model(&courseModels.Payment{}).Where("enrollment_id = ?", enrollment.ID).Count(&payments)
	assert.EqualValues(t, 2, payments)

	// Deciding the same payment again is an invalid state, not a no-op
	_, err = svc.Decide(instructor.ID, second.ID, DecisionApprove, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestDecideRejectNeedsUsableReason(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)
	payment, err := svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
		ProofURL: "/uploads/proofs/a.png", Method: courseModels.MethodEmola, Amount: 500,
	})
	require.NoError(t, err)

	_, err = svc.Decide(instructor.ID, payment.ID, DecisionReject, "bad")
	assert.Error(t, err)

	// Nothing moved
	require.NoError(t, db.First(payment, payment.ID).Error)
	assert.Equal(t, courseModels.PaymentPendingReview, payment.Status)
}

func TestDecideRequiresCourseOwnership(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	stranger := createUser(t, db, models.RoleInstructor)
	admin := createUser(t, db, models.RoleAdmin)
	crs := createCourse(t, db, instructor.ID, 500, false)
	learner := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
	require.NoError(t, err)
	payment, err := svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
		ProofURL: "/uploads/proofs/a.png", Method: courseModels.MethodBankTransfer, Amount: 500,
	})
	require.NoError(t, err)

	_, err = svc.Decide(stranger.ID, payment.ID, DecisionApprove, "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Admins may decide for any course
	_, err = svc.Decide(admin.ID, payment.ID, DecisionApprove, "")
	assert.NoError(t, err)
}

func TestPendingReviewCount(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)

	for i := 0; i < 3; i++ {
		learner := createUser(t, db, models.RoleStudent)
		enrollment, err := svc.CreateIntent(learner.ID, crs.ID)
		require.NoError(t, err)
		_, err = svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
			ProofURL: "/uploads/proofs/a.png", Method: courseModels.MethodMpesa, Amount: 500,
		})
		require.NoError(t, err)
	}

	count, err := svc.PendingReviewCount(instructor.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
