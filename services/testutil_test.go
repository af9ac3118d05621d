package services

import (
	"fmt"
	"sync"
	"testing"

	"cursos/models"
	courseModels "cursos/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. A single connection
// keeps every query on the same memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Material{},
		&courseModels.MaterialCompletion{},
		&courseModels.Enrollment{},
		&courseModels.Payment{},
		&courseModels.Quiz{},
		&courseModels.Question{},
		&courseModels.Option{},
		&courseModels.QuizAttempt{},
		&courseModels.Certificate{},
	))
	return db
}

// fakeNotifier records notifications instead of sending mail
type fakeNotifier struct {
	mu   sync.Mutex
	sent []fakeNotification
}

type fakeNotification struct {
	UserID uint
	Title  string
}

func (f *fakeNotifier) Notify(userID uint, title, message, link string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, fakeNotification{UserID: userID, Title: title})
}

func (f *fakeNotifier) countFor(userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sent {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *fakeNotifier) {
	t.Helper()
	db := newTestDB(t)
	notifier := &fakeNotifier{}
	return New(db, notifier, nil), db, notifier
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:  "Test " + role,
		Email: fmt.Sprintf("%s-%d@example.com", role, userSeq(db)),
		Role:  role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func userSeq(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.User{}).Count(&count)
	return count + 1
}

func createCourse(t *testing.T, db *gorm.DB, authorID uint, price float64, free bool) *courseModels.Course {
	t.Helper()
	crs := courseModels.Course{
		Title:    "Test Course",
		AuthorID: authorID,
		Price:    price,
		IsFree:   free,
		Status:   courseModels.CourseActive,
	}
	require.NoError(t, db.Create(&crs).Error)
	return &crs
}

// createModule adds a module at the given order with n materials
func createModule(t *testing.T, db *gorm.DB, courseID uint, order, materials int) (*courseModels.Module, []courseModels.Material) {
	t.Helper()
	module := courseModels.Module{
		CourseID:   courseID,
		Title:      fmt.Sprintf("Module %d", order),
		OrderIndex: order,
	}
	require.NoError(t, db.Create(&module).Error)

	created := make([]courseModels.Material, materials)
	for i := 0; i < materials; i++ {
		created[i] = courseModels.Material{
			ModuleID:    module.ID,
			Title:       fmt.Sprintf("Material %d.%d", order, i+1),
			ContentType: courseModels.MaterialText,
			TextContent: "content",
			OrderIndex:  i + 1,
		}
		require.NoError(t, db.Create(&created[i]).Error)
	}
	return &module, created
}

// quizFixture carries the IDs a test needs to answer a quiz correctly or
// incorrectly.
type quizFixture struct {
	Quiz      courseModels.Quiz
	Questions []courseModels.Question
	Correct   map[uint]uint // question ID -> correct option ID
	Wrong     map[uint]uint // question ID -> a wrong option ID
}

// attachQuiz creates a quiz on the module with one question per entry of
// points, two options each.
func attachQuiz(t *testing.T, db *gorm.DB, moduleID uint, passingPercent float64, points []int) *quizFixture {
	t.Helper()
	fixture := &quizFixture{
		Correct: make(map[uint]uint),
		Wrong:   make(map[uint]uint),
	}
	fixture.Quiz = courseModels.Quiz{
		ModuleID:       moduleID,
		Title:          "Module quiz",
		PassingPercent: passingPercent,
	}
	require.NoError(t, db.Create(&fixture.Quiz).Error)

	for i, p := range points {
		question := courseModels.Question{
			QuizID:     fixture.Quiz.ID,
			Text:       fmt.Sprintf("Question %d", i+1),
			Points:     p,
			OrderIndex: i + 1,
		}
		require.NoError(t, db.Create(&question).Error)
		fixture.Questions = append(fixture.Questions, question)

		right := courseModels.Option{QuestionID: question.ID, Text: "right", IsCorrect: true, OrderIndex: 1}
		wrong := courseModels.Option{QuestionID: question.ID, Text: "wrong", OrderIndex: 2}
		require.NoError(t, db.Create(&right).Error)
		require.NoError(t, db.Create(&wrong).Error)
		fixture.Correct[question.ID] = right.ID
		fixture.Wrong[question.ID] = wrong.ID
	}
	return fixture
}

// allCorrect builds a full set of correct answers
func (f *quizFixture) allCorrect() []courseModels.Answer {
	answers := make([]courseModels.Answer, 0, len(f.Questions))
	for _, q := range f.Questions {
		answers = append(answers, courseModels.Answer{QuestionID: q.ID, OptionID: f.Correct[q.ID]})
	}
	return answers
}

// activeEnrollment creates a learner enrolled and activated on the course
func activeEnrollment(t *testing.T, db *gorm.DB, svc *Service, courseID uint) (*models.User, *courseModels.Enrollment) {
	t.Helper()
	learner := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.CreateIntent(learner.ID, courseID)
	require.NoError(t, err)

	if enrollment.Status != courseModels.EnrollmentActive {
		_, err = svc.SubmitProof(learner.ID, enrollment.ID, ProofSubmission{
			ProofURL: "/uploads/proofs/test.png",
			Method:   courseModels.MethodMpesa,
			Amount:   500,
		})
		require.NoError(t, err)

		var payment courseModels.Payment
		require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).Order("id desc").First(&payment).Error)

		var crs courseModels.Course
		require.NoError(t, db.Where("id = ?", courseID).First(&crs).Error)

		_, err = svc.Decide(crs.AuthorID, payment.ID, DecisionApprove, "")
		require.NoError(t, err)

		require.NoError(t, db.Where("id = ?", enrollment.ID).First(enrollment).Error)
	}
	return learner, enrollment
}

// completeMaterials registers every given material for the enrollment
func completeMaterials(t *testing.T, svc *Service, learnerID, enrollmentID uint, materials []courseModels.Material) *CompletionResult {
	t.Helper()
	var last *CompletionResult
	for _, m := range materials {
		result, err := svc.RegisterCompletion(learnerID, enrollmentID, m.ID)
		require.NoError(t, err)
		last = result
	}
	return last
}
