package services

import (
	"testing"

	"cursos/models"
	courseModels "cursos/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAttemptRequiresMaterialsDone(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	module1, _ := createModule(t, db, crs.ID, 1, 2)
	fixture := attachQuiz(t, db, module1.ID, 70, []int{1})

	learner, enrollment := activeEnrollment(t, db, svc, crs.ID)

	_, err := svc.StartAttempt(learner.ID, enrollment.ID, fixture.Quiz.ID)
	assert.ErrorIs(t, err, ErrNotAccessible, "quiz is the final gate, not a shortcut")
}

func TestStartAttemptLockedModule(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	createModule(t, db, crs.ID, 1, 1)
	module2, m2 := createModule(t, db, crs.ID, 2, 1)
	fixture := attachQuiz(t, db, module2.ID, 70, []int{1})

	learner, enrollment := activeEnrollment(t, db, svc, crs.ID)

	// module 1 incomplete; even with module-2 materials force-completed in
	// the table, the module itself is locked
	require.NoError(t, db.Create(&courseModels.MaterialCompletion{
		EnrollmentID: enrollment.ID, MaterialID: m2[0].ID,
	}).Error)

	_, err := svc.StartAttempt(learner.ID, enrollment.ID, fixture.Quiz.ID)
	assert.ErrorIs(t, err, ErrNotAccessible)
}

// quizCourse builds a 1-module course whose module has one material and a
// quiz, with the learner ready to start the quiz.
func quizCourse(t *testing.T, passingPercent float64, points []int) (*Service, *quizFixture, uint, uint) {
	t.Helper()
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	module1, materials := createModule(t, db, crs.ID, 1, 1)
	fixture := attachQuiz(t, db, module1.ID, passingPercent, points)

	learner, enrollment := activeEnrollment(t, db, svc, crs.ID)
	completeMaterials(t, svc, learner.ID, enrollment.ID, materials)
	return svc, fixture, learner.ID, enrollment.ID
}

func TestSubmitWeightedScoring(t *testing.T) {
	svc, fixture, learnerID, enrollmentID := quizCourse(t, 70, []int{1, 2, 3})

	attempt, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)

	// Correct only the 3-point question: 3 of 6 points
	q3 := fixture.Questions[2]
	result, err := svc.SubmitAttempt(learnerID, attempt.ID, []courseModels.Answer{
		{QuestionID: q3.ID, OptionID: fixture.Correct[q3.ID]},
		{QuestionID: fixture.Questions[0].ID, OptionID: fixture.Wrong[fixture.Questions[0].ID]},
	})
	require.NoError(t, err)
	assert.InDelta(t, 50, result.ScorePercent, 0.01)
	assert.False(t, result.Passed)
}

func TestSubmitIgnoresForeignAnswerPairs(t *testing.T) {
	svc, fixture, learnerID, enrollmentID := quizCourse(t, 50, []int{1, 1})

	attempt, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)

	q1 := fixture.Questions[0]
	result, err := svc.SubmitAttempt(learnerID, attempt.ID, []courseModels.Answer{
		{QuestionID: q1.ID, OptionID: fixture.Correct[q1.ID]},
		{QuestionID: 99999, OptionID: 1},                      // unknown question, dropped
		{QuestionID: fixture.Questions[1].ID, OptionID: 99999}, // unknown option, dropped
	})
	require.NoError(t, err, "foreign pairs never fail the submission")
	assert.InDelta(t, 50, result.ScorePercent, 0.01)
	assert.True(t, result.Passed, "pass boundary is inclusive")
}

func TestSubmitUnansweredScoreZero(t *testing.T) {
	svc, fixture, learnerID, enrollmentID := quizCourse(t, 70, []int{2, 2})

	attempt, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)

	result, err := svc.SubmitAttempt(learnerID, attempt.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, result.ScorePercent)
	assert.False(t, result.Passed)
}

func TestSubmitTwiceFails(t *testing.T) {
	svc, fixture, learnerID, enrollmentID := quizCourse(t, 70, []int{1})

	attempt, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(learnerID, attempt.ID, fixture.allCorrect())
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(learnerID, attempt.ID, fixture.allCorrect())
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestSubmitEmptyQuizMisconfigured(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	module1, materials := createModule(t, db, crs.ID, 1, 1)

	// Broken content: quiz without questions, created behind the
	// authoring API's back
	quiz := courseModels.Quiz{ModuleID: module1.ID, Title: "empty", PassingPercent: 70}
	require.NoError(t, db.Create(&quiz).Error)

	learner, enrollment := activeEnrollment(t, db, svc, crs.ID)
	completeMaterials(t, svc, learner.ID, enrollment.ID, materials)

	attempt, err := svc.StartAttempt(learner.ID, enrollment.ID, quiz.ID)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(learner.ID, attempt.ID, nil)
	assert.ErrorIs(t, err, ErrQuizMisconfigured)
}

func TestLatestAttemptAuthoritativeForGating(t *testing.T) {
	svc, fixture, learnerID, enrollmentID := quizCourse(t, 70, []int{1})

	attempt, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)
	result, err := svc.SubmitAttempt(learnerID, attempt.ID, fixture.allCorrect())
	require.NoError(t, err)
	require.True(t, result.Passed)

	complete, err := svc.ModuleComplete(enrollmentID, fixture.Quiz.ModuleID)
	require.NoError(t, err)
	assert.True(t, complete)

	// A later failing attempt takes over as the authoritative one. The
	// enrollment stays completed, but module completeness reflects it.
	attempt2, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)
	q1 := fixture.Questions[0]
	result2, err := svc.SubmitAttempt(learnerID, attempt2.ID, []courseModels.Answer{
		{QuestionID: q1.ID, OptionID: fixture.Wrong[q1.ID]},
	})
	require.NoError(t, err)
	require.False(t, result2.Passed)

	complete, err = svc.ModuleComplete(enrollmentID, fixture.Quiz.ModuleID)
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestIdenticalAnswersScoreIdentically(t *testing.T) {
	svc, fixture, learnerID, enrollmentID := quizCourse(t, 90, []int{1, 2, 3, 5})

	q := fixture.Questions
	answers := []courseModels.Answer{
		{QuestionID: q[0].ID, OptionID: fixture.Correct[q[0].ID]},
		{QuestionID: q[1].ID, OptionID: fixture.Wrong[q[1].ID]},
		{QuestionID: q[3].ID, OptionID: fixture.Correct[q[3].ID]},
	}

	attempt1, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)
	result1, err := svc.SubmitAttempt(learnerID, attempt1.ID, answers)
	require.NoError(t, err)

	attempt2, err := svc.StartAttempt(learnerID, enrollmentID, fixture.Quiz.ID)
	require.NoError(t, err)
	result2, err := svc.SubmitAttempt(learnerID, attempt2.ID, answers)
	require.NoError(t, err)

	assert.Equal(t, result1.ScorePercent, result2.ScorePercent)
	assert.Equal(t, result1.Passed, result2.Passed)
}

// Scenario: two modules, module 1 with two materials and no quiz, module 2
// with one material and a 70% quiz. Fail the quiz at 50%, then pass at 80%:
// course completes and exactly one certificate is issued.
func TestTwoModuleCourseEndToEnd(t *testing.T) {
	svc, db, _ := newTestService(t)
	instructor := createUser(t, db, models.RoleInstructor)
	crs := createCourse(t, db, instructor.ID, 500, false)
	_, m1 := createModule(t, db, crs.ID, 1, 2)
	module2, m2 := createModule(t, db, crs.ID, 2, 1)
	// 10 questions of 1 point each lets us hit 50% and 80% exactly
	fixture := attachQuiz(t, db, module2.ID, 70, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1})

	learner, enrollment := activeEnrollment(t, db, svc, crs.ID)

	result := completeMaterials(t, svc, learner.ID, enrollment.ID, m1)
	require.NotNil(t, result.NextModuleID)
	assert.Equal(t, module2.ID, *result.NextModuleID)

	result = completeMaterials(t, svc, learner.ID, enrollment.ID, m2)
	assert.True(t, result.QuizRequired)

	answersFor := func(correct int) []courseModels.Answer {
		answers := make([]courseModels.Answer, 0, len(fixture.Questions))
		for i, q := range fixture.Questions {
			optionID := fixture.Wrong[q.ID]
			if i < correct {
				optionID = fixture.Correct[q.ID]
			}
			answers = append(answers, courseModels.Answer{QuestionID: q.ID, OptionID: optionID})
		}
		return answers
	}

	attempt1, err := svc.StartAttempt(learner.ID, enrollment.ID, fixture.Quiz.ID)
	require.NoError(t, err)
	fail, err := svc.SubmitAttempt(learner.ID, attempt1.ID, answersFor(5))
	require.NoError(t, err)
	assert.InDelta(t, 50, fail.ScorePercent, 0.01)
	assert.False(t, fail.Passed)
	assert.False(t, fail.Completion.CourseComplete)

	complete, err := svc.ModuleComplete(enrollment.ID, module2.ID)
	require.NoError(t, err)
	assert.False(t, complete)

	attempt2, err := svc.StartAttempt(learner.ID, enrollment.ID, fixture.Quiz.ID)
	require.NoError(t, err)
	pass, err := svc.SubmitAttempt(learner.ID, attempt2.ID, answersFor(8))
	require.NoError(t, err)
	assert.InDelta(t, 80, pass.ScorePercent, 0.01)
	assert.True(t, pass.Passed)
	assert.True(t, pass.Completion.ModuleComplete)
	assert.True(t, pass.Completion.CourseComplete)

	require.NoError(t, db.First(enrollment, enrollment.ID).Error)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)

	var certs int64
	db.Model(&courseModels.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&certs)
	assert.EqualValues(t, 1, certs, "exactly one certificate")

	// Both attempts retained for audit
	var attempts int64
	db.Model(&courseModels.QuizAttempt{}).Where("enrollment_id = ?", enrollment.ID).Count(&attempts)
	assert.EqualValues(t, 2, attempts)
}
